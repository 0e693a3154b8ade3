package domain

import "time"

// EntityLanguage names the programming language entity in errors and events
const EntityLanguage = "ProgrammingLanguage"

// ProgrammingLanguage is a language repositories can be tagged with
type ProgrammingLanguage struct {
	ID        uint64  `json:"id" yaml:"id" codec:"id"`
	Name      string  `json:"name" yaml:"name" codec:"name"`
	UpdatedAt *uint64 `json:"updated_at,omitempty" yaml:"updated_at,omitempty" codec:"updated_at"`
}

// LanguagePayload carries the mutable fields of a language
type LanguagePayload struct {
	Name string `json:"name" yaml:"name"`
}

// Validate returns the message for the first invalid field, or ""
func (p LanguagePayload) Validate() string {
	if p.Name == "" {
		return MsgInvalidLanguageName
	}
	return ""
}

// Apply overwrites every mutable field from the payload
func (l *ProgrammingLanguage) Apply(p LanguagePayload) {
	l.Name = p.Name
}

// Validate checks a stored language the same way its payload is checked
func (l *ProgrammingLanguage) Validate() string {
	return LanguagePayload{Name: l.Name}.Validate()
}

// Touch stamps UpdatedAt with now, kept strictly above the previous stamp
func (l *ProgrammingLanguage) Touch(now time.Time) {
	l.UpdatedAt = NextStamp(l.UpdatedAt, now)
}

// UpdatedTime returns UpdatedAt as a time, or nil when never stamped
func (l *ProgrammingLanguage) UpdatedTime() *time.Time {
	return StampTime(l.UpdatedAt)
}
