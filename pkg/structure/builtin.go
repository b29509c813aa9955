package structure

// builtinDefinitions is the fixed built-in SCA inventory: nine primitive
// syntactic categories (some split into sub-patterns summed by formula) and
// fourteen ratio measures over them. Insertion order here is output-column
// order.
var builtinDefinitions = []Definition{
	{
		Name:          "W",
		Description:   "words",
		TregexPattern: `/^[A-Z]+\$?$/ < (__ !< __)`,
	},
	{
		Name:          "S",
		Description:   "sentences",
		TregexPattern: `ROOT`,
	},
	{
		Name:          "VP1",
		Description:   "regular verb phrases",
		TregexPattern: `VP > S|SINV|SQ`,
	},
	{
		Name:          "VP2",
		Description:   "verb phrases in inverted yes/no questions or in wh-questions",
		TregexPattern: `MD|VBZ|VBP|VBD > (SQ !< VP)`,
	},
	{
		Name:        "VP",
		Description: "verb phrases",
		Formula:     "VP1 + VP2",
	},
	{
		Name:          "C1",
		Description:   "regular clauses",
		TregexPattern: `S|SINV|SQ [> ROOT <, (VP <# VB) | <# MD|VBZ|VBP|VBD | < (VP [<# MD|VBP|VBZ|VBD | < CC < (VP <# MD|VBP|VBZ|VBD)])]`,
	},
	{
		Name:          "C2",
		Description:   "fragment clauses",
		TregexPattern: `FRAG > ROOT !<< (S|SINV|SQ [> ROOT <, (VP <# VB) | <# MD|VBZ|VBP|VBD | < (VP [<# MD|VBP|VBZ|VBD | < CC < (VP <# MD|VBP|VBZ|VBD)])])`,
	},
	{
		Name:        "C",
		Description: "clauses",
		Formula:     "C1 + C2",
	},
	{
		Name:          "T1",
		Description:   "regular T-units",
		TregexPattern: `S|SBARQ|SINV|SQ > ROOT | [$-- S|SBARQ|SINV|SQ !>> SBAR|VP]`,
	},
	{
		Name:          "T2",
		Description:   "fragment T-units",
		TregexPattern: `FRAG > ROOT !<< (S|SBARQ|SINV|SQ > ROOT | [$-- S|SBARQ|SINV|SQ !>> SBAR|VP])`,
	},
	{
		Name:        "T",
		Description: "T-units",
		Formula:     "T1 + T2",
	},
	{
		Name:          "DC",
		Description:   "dependent clauses",
		TregexPattern: `SBAR < (S|SINV|SQ [> ROOT <, (VP <# VB) | <# MD|VBZ|VBP|VBD | < (VP [<# MD|VBP|VBZ|VBD | < CC < (VP <# MD|VBP|VBZ|VBD)])])`,
	},
	{
		Name:          "CT",
		Description:   "complex T-units",
		TregexPattern: `S|SBARQ|SINV|SQ [> ROOT | [$-- S|SBARQ|SINV|SQ !>> SBAR|VP]] << (SBAR < (S|SINV|SQ [> ROOT <, (VP <# VB) | <# MD|VBZ|VBP|VBD | < (VP [<# MD|VBP|VBZ|VBD | < CC < (VP <# MD|VBP|VBZ|VBD)])]))`,
	},
	{
		Name:          "CP",
		Description:   "coordinate phrases",
		TregexPattern: `ADJP|ADVP|NP|VP < CC`,
	},
	{
		Name:          "CN1",
		Description:   "complex nominals, type 1",
		TregexPattern: `NP !> NP [<< JJ|POS|PP|S|VBG | << (NP $++ NP !$+ CC)]`,
	},
	{
		Name:          "CN2",
		Description:   "complex nominals, type 2",
		TregexPattern: `SBAR [<# WHNP | <# (IN < That|that|For|for) | <, S] & [$+ VP | > VP]`,
	},
	{
		Name:          "CN3",
		Description:   "complex nominals, type 3",
		TregexPattern: `S < (VP <# VBG|TO) $+ VP`,
	},
	{
		Name:        "CN",
		Description: "complex nominals",
		Formula:     "CN1 + CN2 + CN3",
	},
	{
		Name:        "MLS",
		Description: "mean length of sentence",
		Formula:     "W / S",
	},
	{
		Name:        "MLT",
		Description: "mean length of T-unit",
		Formula:     "W / T",
	},
	{
		Name:        "MLC",
		Description: "mean length of clause",
		Formula:     "W / C",
	},
	{
		Name:        "C/S",
		Description: "clauses per sentence",
		Formula:     "C / S",
	},
	{
		Name:        "VP/T",
		Description: "verb phrases per T-unit",
		Formula:     "VP / T",
	},
	{
		Name:        "C/T",
		Description: "clauses per T-unit",
		Formula:     "C / T",
	},
	{
		Name:        "DC/C",
		Description: "dependent clauses per clause",
		Formula:     "DC / C",
	},
	{
		Name:        "DC/T",
		Description: "dependent clauses per T-unit",
		Formula:     "DC / T",
	},
	{
		Name:        "T/S",
		Description: "T-units per sentence",
		Formula:     "T / S",
	},
	{
		Name:        "CT/T",
		Description: "complex T-unit ratio",
		Formula:     "CT / T",
	},
	{
		Name:        "CP/T",
		Description: "coordinate phrases per T-unit",
		Formula:     "CP / T",
	},
	{
		Name:        "CP/C",
		Description: "coordinate phrases per clause",
		Formula:     "CP / C",
	},
	{
		Name:        "CN/T",
		Description: "complex nominals per T-unit",
		Formula:     "CN / T",
	},
	{
		Name:        "CN/C",
		Description: "complex nominals per clause",
		Formula:     "CN / C",
	},
}

// BuiltinNames returns the built-in structure names in catalog order.
func BuiltinNames() []string {
	names := make([]string, len(builtinDefinitions))
	for i, def := range builtinDefinitions {
		names[i] = def.Name
	}
	return names
}
