package rule

import "github.com/ZabraveniGeroi/blogc/pkg/token"

// CaptureKind tags the shape of a Capture.
type CaptureKind uint8

// Capture shapes, one per combinator family.
const (
	// CaptureNone is produced by Pass.
	CaptureNone CaptureKind = iota
	// CaptureToken is produced by Literal and holds the matched token.
	CaptureToken
	// CaptureRun is produced by Until: the consumed run plus its stop token.
	CaptureRun
	// CaptureList is produced by Sequence and Repeat, one item per sub-match.
	CaptureList
	// CaptureChoice is produced by First and Shortest; Alt names the winning
	// alternative and Items holds its capture.
	CaptureChoice
)

func (k CaptureKind) String() string {
	switch k {
	case CaptureNone:
		return "none"
	case CaptureToken:
		return "token"
	case CaptureRun:
		return "run"
	case CaptureList:
		return "list"
	case CaptureChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// Capture is the data a successful match hands to a grammar builder.
type Capture struct {
	Kind  CaptureKind
	Token token.Token   // CaptureToken
	Run   []token.Token // CaptureRun, excluding Stop
	Stop  token.Token   // CaptureRun
	Items []Capture     // CaptureList, CaptureChoice
	Alt   int           // CaptureChoice
}

// At returns the i-th item of a list or choice capture, or an empty capture
// when i is out of range.
func (c Capture) At(i int) Capture {
	if i < 0 || i >= len(c.Items) {
		return Capture{}
	}
	return c.Items[i]
}

// Len returns the number of items.
func (c Capture) Len() int {
	return len(c.Items)
}

// Chosen unwraps a choice capture. For any other kind it returns 0 and c.
func (c Capture) Chosen() (int, Capture) {
	if c.Kind != CaptureChoice {
		return 0, c
	}
	return c.Alt, c.At(0)
}

// Tokens returns every token the capture consumed, in source order.
func (c Capture) Tokens() []token.Token {
	switch c.Kind {
	case CaptureToken:
		return []token.Token{c.Token}
	case CaptureRun:
		out := make([]token.Token, 0, len(c.Run)+1)
		out = append(out, c.Run...)
		return append(out, c.Stop)
	case CaptureList, CaptureChoice:
		var out []token.Token
		for _, item := range c.Items {
			out = append(out, item.Tokens()...)
		}
		return out
	default:
		return nil
	}
}

func tokenCapture(t token.Token) Capture {
	return Capture{Kind: CaptureToken, Token: t}
}

func runCapture(run []token.Token, stop token.Token) Capture {
	return Capture{Kind: CaptureRun, Run: run, Stop: stop}
}

func listCapture(items []Capture) Capture {
	return Capture{Kind: CaptureList, Items: items}
}

func choiceCapture(alt int, inner Capture) Capture {
	return Capture{Kind: CaptureChoice, Alt: alt, Items: []Capture{inner}}
}
