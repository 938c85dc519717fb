package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Severity bands a Diagnostic's numeric code into the catalogue used
// throughout this package: status and informational codes are non-fatal,
// codes at or above 500 stop the run.
type Severity int

const (
	// SeverityStatus covers periodic progress messages (100-199).
	SeverityStatus Severity = iota
	// SeverityInfo covers informational messages that need no operator action (200-299).
	SeverityInfo
	// SeverityWarning covers messages where operator action may be needed (300-499).
	SeverityWarning
	// SeverityFatal covers messages that abort the run, whether data-induced (500-799) or program-induced (800-999).
	SeverityFatal
)

func severityFor(code float64) Severity {
	switch {
	case code < 100:
		return SeverityInfo
	case code < 200:
		return SeverityStatus
	case code < 300:
		return SeverityInfo
	case code < 500:
		return SeverityWarning
	default:
		return SeverityFatal
	}
}

// Diagnostic is a single numbered message from the catalogue below, with
// optional name=value parameters attached for context. The numbering
// mirrors the original banded catalogue: codes below 500 are non-fatal,
// 500-799 are data-induced fatal errors, and 800-999 are program-induced
// fatal errors. See the catalogue below for the codes each subsystem uses.
type Diagnostic struct {
	Code   float64
	Text   string
	Params []Param
}

// Param is a single name=value pair attached to a Diagnostic for context,
// following the original catalogue's "string-number pairs" convention.
type Param struct {
	Name  string
	Value float64
}

func (d Diagnostic) Severity() Severity {
	return severityFor(d.Code)
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%.1f  %s", d.Code, d.Text)
	for _, p := range d.Params {
		s += fmt.Sprintf(" (%s=%g)", p.Name, p.Value)
	}
	return s
}

// Diag constructs a Diagnostic from a code, text, and an optional list of
// name=value parameters, each built with P.
func Diag(code float64, text string, params ...Param) Diagnostic {
	return Diagnostic{Code: code, Text: text, Params: params}
}

// P builds a single Param, for use in Diag/Fatalf/Warnf calls.
func P(name string, value float64) Param {
	return Param{Name: name, Value: value}
}

// Report logs a Diagnostic at a level appropriate to its severity, calling
// logrus.Fatal for fatal diagnostics (which exits the process; there is no
// retry and no partial progress), logrus.Warn for warnings, logrus.Info
// for informational codes, and logrus.Debug for status codes.
func Report(d Diagnostic) {
	switch d.Severity() {
	case SeverityFatal:
		logrus.Fatal(d.String())
	case SeverityWarning:
		logrus.Warn(d.String())
	case SeverityInfo:
		logrus.Info(d.String())
	default:
		logrus.Debug(d.String())
	}
}

// Fatalf reports a fatal Diagnostic and exits the process via logrus.Fatal.
func Fatalf(code float64, text string, params ...Param) {
	Report(Diag(code, text, params...))
}

// Warnf reports a non-fatal Diagnostic and returns; callers continue with
// whatever safe default applies to the guard that triggered it.
func Warnf(code float64, text string, params ...Param) {
	Report(Diag(code, text, params...))
}

// Catalogue of diagnostic codes used by this package, grouped by subsystem
// and mirroring the original message bands (500-799 fatal/data, 800-999
// fatal/program, below 500 non-fatal).
const (
	// RNG table integrity (6xx/7xx).
	CodeRandTableOutOfRange = 753.1 // a binary search table value lies outside the supplied bounds
	CodeRandTableNotBounded = 753.2 // a cumulative table is not bounded by 0 and 1
	CodeRandTableNotMono    = 621.0 // a cumulative table is not monotonically increasing

	// Centinel I/O (5xx, historically 500-536), plus the non-fatal 387
	// warning for an ignored value or parameter.
	CodeFileOpen          = 510.0
	CodeFileIncomplete    = 511.0
	CodeFileBadFormat     = 513.0
	CodeFileNoData        = 514.0
	CodeFileIndexBad      = 515.0
	CodeFileDimNotPos     = 516.0
	CodeFileIndexTooLarge = 517.0
	CodeFileIndexNotDiv   = 518.0
	CodeFileTransformBad  = 520.0
	CodeFileTransformZero = 521.0
	CodeFileTransformSyn  = 522.0
	CodeFileColumnBad     = 523.0
	CodeFileLabelBad      = 524.0
	CodeFileTooManyCols   = 532.0
	CodeFileSpurious      = 533.0
	CodeFileIndexFieldBad = 534.0
	CodeFileEnded         = 536.0
	CodeIndexIgnored      = 387.0

	// Scheduler (7xx/8xx).
	CodeEventIndexRange   = 734.0
	CodeEventAlreadySched = 735.0
	CodeEventNotSched     = 736.0
	CodeEventInPast       = 737.0
	CodeEventInitNotEmpty = 742.0
	CodeEventNotFound     = 818.0
	CodeEventNegCounter   = 819.0
	CodeEventBrokenLink   = 820.0

	// Population / transition engine (6xx/8xx).
	CodeStateOutOfRange = 609.0
	CodePopCountBad     = 610.0
	CodeSortError       = 618.0
	CodeReportTimeZero  = 619.0
	CodeIOInconsistent  = 840.0
	CodeBirthInPast     = 850.0

	// Program-level (9xx).
	CodeNoMemory   = 911.0
	CodeIndexRange = 920.0
	CodeNilPointer = 921.0
	CodeBadSwitch  = 922.0
)
