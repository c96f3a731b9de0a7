package instagram

// Status discriminates the outcome of a profile lookup. Exactly one status is
// active per Result; consumers switch on it exhaustively.
type Status string

const (
	// StatusFound means the profile page was fetched and matched the
	// requested handle. Best-effort: a match is heuristic, not proof.
	StatusFound Status = "found"
	// StatusNotFound means Instagram definitively reported no such profile.
	StatusNotFound Status = "not_found"
	// StatusBlocked means Instagram's anti-automation response pattern was
	// observed. It says nothing about whether the account exists.
	StatusBlocked Status = "blocked"
	// StatusInvalid means the input failed normalization before any network
	// call was made.
	StatusInvalid Status = "invalid"
	// StatusError means a transport or parse failure unrelated to the
	// identity question.
	StatusError Status = "error"
)

// Result is the classified outcome of one resolution. The JSON shape is the
// lookup endpoint's response body for every status.
type Result struct {
	Status     Status `json:"status"`
	Username   string `json:"username,omitempty"`
	FullName   string `json:"fullName,omitempty"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
	ProfileURL string `json:"profileUrl,omitempty"`
	Message    string `json:"message,omitempty"`
}

func foundResult(user, fullName, avatarURL, profileURL string) Result {
	return Result{
		Status:     StatusFound,
		Username:   user,
		FullName:   fullName,
		AvatarURL:  avatarURL,
		ProfileURL: profileURL,
	}
}

func notFoundResult(user string) Result {
	return Result{Status: StatusNotFound, Username: user, Message: "Profile not found"}
}

func blockedResult(user string) Result {
	return Result{Status: StatusBlocked, Username: user, Message: "Instagram blocked verification. Try again in a minute."}
}

func invalidResult(message string) Result {
	if message == "" {
		message = "Invalid username"
	}
	return Result{Status: StatusInvalid, Message: message}
}

func errorResult() Result {
	return Result{Status: StatusError, Message: "Verification failed"}
}
