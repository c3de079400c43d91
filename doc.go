/*
Package lexis provides an embeddable, in-memory keyword search and autocomplete
index for Go.

Records are tokenized into keywords, and an ordered keyword map points each
keyword at the set of record keys containing it. On top of that map lexis offers
exact keyword search, AND/OR multi-keyword search, search-as-you-type, three
autocomplete modes, and fuzzy keyword substitution when a query term has no
exact match.

# Quick Start

	package main

	import (
	    "fmt"
	    "log"

	    "github.com/wizenheimer/lexis"
	)

	func main() {
	    idx, err := lexis.NewIndex[int](nil)
	    if err != nil {
	        log.Fatal(err)
	    }

	    idx.Insert(1, lexis.Text("New York City"))
	    idx.Insert(2, lexis.Text("New Orleans"))

	    keys, err := idx.Search("new york")
	    if err != nil {
	        log.Fatal(err)
	    }
	    fmt.Println(keys) // [1]

	    completions, _ := idx.Autocomplete("new o")
	    for _, c := range completions {
	        fmt.Println(c.Text, c.Keys) // new orleans [2]
	    }
	}

# Records and Keys

Keys can be any ordered type (integers, strings, ...). Records implement
Indexable by returning the strings to index; Text, Fields and IndexableFunc
cover the common cases. The index stores keys only, never record content, so
Remove must be given the same content the key was inserted with:

	idx.Insert(7, lexis.Fields{"Blue Whale", "Balaenoptera musculus"})
	idx.Remove(7, lexis.Fields{"Blue Whale", "Balaenoptera musculus"})

# Tokenization

Text is split on Options.Separators (or on Unicode word boundaries with
SplitWords), NFKC-normalized and lowercased unless CaseSensitive is set.
Keywords outside [MinimumKeywordLength, MaximumKeywordLength] runes, and those
listed in ExcludeKeywords, are not indexed. When MaximumStringLength is
positive, short strings are also indexed whole, which lets autocomplete
suggest complete phrases.

Queries go through the same normalization and splitting. Query keywords are
never dropped for their length: a one-letter query keyword is still looked up.

# Search

The search kind is chosen in Options and may be overridden per query:

KeywordSearch: the query is one keyword. Queries holding several keywords fail
with ErrMultipleKeywords.

ConjunctiveSearch: the query keywords are combined with And (records holding
all of them) or Or (records holding any, ranked by how many they hold).

LiveSearch: search as you type. The typed keywords are AND-ed and the keyword
still being typed matches every keyword it is a prefix of.

	results, err := idx.NewSearch().
	    WithQuery("red blue").
	    WithConjunction(lexis.Or).
	    WithK(10).
	    Execute()

# Autocomplete

KeywordAutocomplete completes the whole query as one keyword.
GlobalAutocomplete completes the last keyword against the entire index.
ContextualAutocomplete completes the last keyword with keywords that occur in
records matching everything typed before it:

	// records: "new york city", "new orleans"
	idx.NewAutocomplete().WithQuery("new y").Execute() // york

# Fuzzy Matching

Fuzzy matching is enabled by plugging a Similarity into Options. The similarity
subpackage ships edit-distance, Jaro and token based backends:

	opts := lexis.DefaultOptions()
	opts.Similarity, _ = similarity.New(similarity.JaroWinkler)
	opts.FuzzyMinimumScore = 0.8
	idx, _ := lexis.NewIndex[string](opts)

A query keyword without an exact entry is replaced by the most similar indexed
keyword scoring at least FuzzyMinimumScore. Autocomplete offers up to
FuzzyCandidates alternatives when no keyword starts with the typed prefix.
FuzzyPrefixLength bounds the scan to keywords sharing the first runes of the
query keyword.

# Thread Safety

Index does no locking. Serialize mutations yourself, and do not search while a
mutation is in progress.
*/
package lexis
