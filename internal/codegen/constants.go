// Package codegen provides naming helpers and constants for generated matchers.
package codegen

// Variable names used in generated code
const (
	InputName   = "input"
	CharName    = "c"
	SizeName    = "size"
	CurrentName = "current"
	NextName    = "next"
	MarkName    = "mark"
	GenName     = "gen"
	StateName   = "s"
	TargetName  = "t"
)

// Suffixes of the package-level identifiers emitted for a matcher.
const (
	StateCountSuffix = "StateCount"
	MatchStateSuffix = "MatchState"
	StartSuffix      = "Start"
	CharsSuffix      = "Chars"
	NextSuffix       = "Next"
	StepSuffix       = "Step"
	AcceptsSuffix    = "Accepts"
)

// NoChar marks table entries of states that do not consume input.
// Decoded input is never negative, so it matches no symbol.
const NoChar = -1

// Ident returns the unexported package-level identifier for the matcher
// named name, e.g. Ident("Email", StartSuffix) is "emailStart".
func Ident(name, suffix string) string {
	return LowerFirst(name) + suffix
}

// LowerFirst converts the first character of a string to lowercase.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]|0x20) + s[1:]
}

// UpperFirst converts the first character of a string to uppercase.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]&^0x20) + s[1:]
}
