package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoGrammarName       = newSemanticError("a grammar needs a name")
	semErrNoStart             = newSemanticError("a grammar needs a start symbol")
	semErrUndefinedStart      = newSemanticError("the start symbol has no production")
	semErrNoProduction        = newSemanticError("a grammar needs at least one production")
	semErrUnusedProduction    = newSemanticError("unused production")
	semErrUnusedTerminal      = newSemanticError("unused terminal")
	semErrTermCannotBeSkipped = newSemanticError("a terminal used in productions cannot be skipped")
	semErrTermHasNoPattern    = newSemanticError("a terminal used in productions needs a pattern")
	semErrEmptyPattern        = newSemanticError("a pattern must not be empty")
	semErrUndefinedSym        = newSemanticError("undefined symbol")
	semErrDuplicateProduction = newSemanticError("duplicate production")
	semErrDuplicateTerminal   = newSemanticError("duplicate terminal")
	semErrDuplicateName       = newSemanticError("duplicate names are not allowed between terminals and non-terminals")
	semErrDuplicateAssoc      = newSemanticError("a terminal can appear only once in precedence declarations")
	semErrErrSymIsReserved    = newSemanticError("symbol 'error' is reserved as a terminal symbol")
	semErrInvalidPrec         = newSemanticError("a production's precedence must refer to a terminal having a precedence")
)
