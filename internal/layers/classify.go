// Package layers sorts hierarchy nodes into portrait layers: bodies,
// eye and mouth expressions, and accessory overlays. All decisions come from
// fixed naming conventions.
package layers

import "regexp"

// Fixed node names.
const (
	TopNode       = "top"       // parent of bodies and expressions
	AccessoryRoot = "add_parts" // parent of accessory families
	CheekFamily   = "basecmn"   // accessory family holding the shared cheek overlay

	EyePrefix   = "e_"
	MouthPrefix = "m_"
)

// Kind is the classification of one node name.
type Kind int

const (
	Ignored Kind = iota
	Body
	EyeExpr
	MouthExpr
	AccessoryRootKind
)

// Class is the result of classifying a name. Base and Frame are set for
// expressions only: "e_nom_s_n1" has base "e_nom_s" and frame "n1".
type Class struct {
	Kind  Kind
	Base  string
	Frame string
}

var (
	eyeRe   = regexp.MustCompile(`^(e_\w+?)_([a-z]\d+)$`)
	mouthRe = regexp.MustCompile(`^(m_\w+?)_(\d+)$`)
)

// Classifier classifies node names against a bundle's body list.
type Classifier struct {
	bodies map[string]bool
}

// NewClassifier returns a classifier that recognizes the given body names.
func NewClassifier(bodies []string) *Classifier {
	c := &Classifier{bodies: make(map[string]bool, len(bodies))}
	for _, b := range bodies {
		c.bodies[b] = true
	}
	return c
}

// Classify applies the naming rules in order: body, accessory root, eye,
// mouth. Anything else is Ignored.
func (c *Classifier) Classify(name string) Class {
	if c.bodies[name] {
		return Class{Kind: Body}
	}
	if name == AccessoryRoot {
		return Class{Kind: AccessoryRootKind}
	}
	if m := eyeRe.FindStringSubmatch(name); m != nil {
		return Class{Kind: EyeExpr, Base: m[1], Frame: m[2]}
	}
	if m := mouthRe.FindStringSubmatch(name); m != nil {
		return Class{Kind: MouthExpr, Base: m[1], Frame: m[2]}
	}
	return Class{Kind: Ignored}
}
