package sentiment

// Built-in English sentiment term lists. Deliberately small: the default
// lexicon is a conservative baseline, production deployments supply their own
// lists or point at a remote model.
var defaultPositiveTerms = []string{
	"excellent",
	"outstanding",
	"impressive",
	"breakthrough",
	"record revenue",
	"beats expectations",
	"innovative",
	"best-in-class",
	"strong demand",
	"praised",
	"loved",
	"amazing",
	"reliable",
	"fast",
	"recommend",
	"leader",
	"growth",
	"success",
	"winning",
	"top performance",
}

var defaultNegativeTerms = []string{
	"terrible",
	"disappointing",
	"overpriced",
	"overheating",
	"recall",
	"lawsuit",
	"shortage",
	"scalping",
	"misses expectations",
	"crash",
	"defect",
	"broken",
	"unreliable",
	"slow",
	"complaint",
	"outrage",
	"boycott",
	"decline",
	"failure",
	"melting",
}
