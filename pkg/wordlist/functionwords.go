package wordlist

// FunctionWords returns a compiled list of English function words:
// determiners, pronouns, auxiliaries, conjunctions, prepositions (including
// common multi-word prepositions), and particles. Used by the lexical
// analyzer to separate content words from function words.
func FunctionWords() *List {
	return Compile(functionWords)
}

var functionWords = []string{
	// determiners and quantifiers
	"a", "an", "the", "this", "that", "these", "those",
	"each", "every", "either", "neither", "some", "any", "no",
	"all", "both", "half", "several", "enough", "such", "much", "many",
	"few", "little", "more", "most", "less", "least", "own", "other", "another",
	// pronouns
	"i", "me", "my", "mine", "myself",
	"you", "your", "yours", "yourself", "yourselves",
	"he", "him", "his", "himself",
	"she", "her", "hers", "herself",
	"it", "its", "itself",
	"we", "us", "our", "ours", "ourselves",
	"they", "them", "their", "theirs", "themselves",
	"who", "whom", "whose", "which", "what", "whoever", "whatever", "whichever",
	"someone", "somebody", "something", "anyone", "anybody", "anything",
	"everyone", "everybody", "everything", "no one", "nobody", "nothing",
	"one", "oneself",
	// auxiliaries and modals
	"am", "is", "are", "was", "were", "be", "been", "being",
	"do", "does", "did", "done", "doing",
	"have", "has", "had", "having",
	"can", "could", "may", "might", "must", "shall", "should",
	"will", "would", "ought", "need", "dare", "used to",
	// conjunctions and complementizers
	"and", "or", "but", "nor", "so", "yet", "for",
	"if", "unless", "because", "although", "though", "while", "whereas",
	"whether", "since", "until", "till", "once", "when", "whenever",
	"where", "wherever", "why", "how", "that", "than", "as",
	"even though", "even if", "as if", "as though", "so that", "in order that",
	// prepositions, including multi-word
	"about", "above", "across", "after", "against", "along", "among",
	"around", "at", "before", "behind", "below", "beneath", "beside",
	"besides", "between", "beyond", "by", "despite", "down", "during",
	"except", "from", "in", "inside", "into", "like", "near", "of", "off",
	"on", "onto", "out", "outside", "over", "past", "through", "throughout",
	"to", "toward", "towards", "under", "underneath", "up", "upon",
	"with", "within", "without",
	"according to", "ahead of", "as well as", "because of", "by means of",
	"in spite of", "instead of", "in front of", "next to", "on behalf of",
	"out of", "prior to", "regardless of", "thanks to", "due to",
	// particles and fillers
	"not", "n't", "there", "here", "then", "also", "just", "only", "too",
	"very", "quite", "rather", "well",
}
