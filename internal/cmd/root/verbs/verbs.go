package verbs

const (
	Browse  = VerbValue("browse")
	Get     = VerbValue("get")
	Version = VerbValue("version")
)

// Empty type to represent the _type_ Verb. Genesis is to support a key in a Context
type VerbKey struct{}

// Verb is a global instance of the VerbKey type
var Verb = VerbKey{}

// Will represent a specific Verb (browse, get, etc)
type VerbValue string

func (v VerbValue) String() string {
	return string(v)
}
