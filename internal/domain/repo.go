package domain

import "time"

// EntityRepo names the repository entity in errors and events
const EntityRepo = "Repo"

// Repo is a software repository tagged with a programming language.
// LanguageID is not checked against the language collection.
type Repo struct {
	ID          uint64  `json:"id" yaml:"id" codec:"id"`
	LanguageID  uint64  `json:"language_id" yaml:"language_id" codec:"language_id"`
	RepoName    string  `json:"repo_name" yaml:"repo_name" codec:"repo_name"`
	Description string  `json:"description" yaml:"description" codec:"description"`
	UpdatedAt   *uint64 `json:"updated_at,omitempty" yaml:"updated_at,omitempty" codec:"updated_at"`
}

// RepoPayload carries the mutable fields of a repository
type RepoPayload struct {
	LanguageID  uint64 `json:"language_id" yaml:"language_id"`
	RepoName    string `json:"repo_name" yaml:"repo_name"`
	Description string `json:"description" yaml:"description"`
}

// Invalid field messages
const (
	MsgInvalidRepoName     = "Invalid repo name"
	MsgInvalidDescription  = "Invalid description"
	MsgInvalidLanguageName = "Invalid language name"
)

// Validate returns the message for the first invalid field, or "" when the
// payload is acceptable. Emptiness is checked literally; whitespace counts.
func (p RepoPayload) Validate() string {
	if msg := ValidateRepoName(p.RepoName); msg != "" {
		return msg
	}
	return ValidateDescription(p.Description)
}

// ValidateRepoName checks a repository name
func ValidateRepoName(name string) string {
	if name == "" {
		return MsgInvalidRepoName
	}
	return ""
}

// ValidateDescription checks a repository description
func ValidateDescription(description string) string {
	if description == "" {
		return MsgInvalidDescription
	}
	return ""
}

// Apply overwrites every mutable field from the payload
func (r *Repo) Apply(p RepoPayload) {
	r.LanguageID = p.LanguageID
	r.RepoName = p.RepoName
	r.Description = p.Description
}

// Validate checks a stored repository the same way its payload is checked
func (r *Repo) Validate() string {
	return RepoPayload{RepoName: r.RepoName, Description: r.Description}.Validate()
}

// Touch stamps UpdatedAt with now, kept strictly above the previous stamp
func (r *Repo) Touch(now time.Time) {
	r.UpdatedAt = NextStamp(r.UpdatedAt, now)
}

// UpdatedTime returns UpdatedAt as a time, or nil when never stamped
func (r *Repo) UpdatedTime() *time.Time {
	return StampTime(r.UpdatedAt)
}
