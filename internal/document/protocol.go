package document

import (
	"strconv"
	"time"
)

// ActionRequest is the single request shape shared by every file manager
// action (read, delete, details, search, copy). Path and TargetPath are
// cosmetic: the namespace is flat.
type ActionRequest struct {
	Action          string   `json:"action"`
	Path            string   `json:"path"`
	Names           []string `json:"names"`
	Data            []Item   `json:"data"`
	SearchString    string   `json:"searchString"`
	ShowHiddenItems bool     `json:"showHiddenItems"`
	CaseSensitive   bool     `json:"caseSensitive"`
	TargetPath      string   `json:"targetPath"`
	RenameFiles     []string `json:"renameFiles"`
}

// Item is the per-entry descriptor the file manager widget exchanges with the
// server, used both for files and for synthesized pseudo-directories.
type Item struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	DateModified time.Time `json:"dateModified"`
	DateCreated  time.Time `json:"dateCreated"`
	HasChild     bool      `json:"hasChild"`
	IsFile       bool      `json:"isFile"`
	Type         string    `json:"type"`
	FilterPath   string    `json:"filterPath"`
	ID           string    `json:"id,omitempty"`
}

// ErrorDetails is the structured error carried inside the envelope. FileExists
// lists colliding names so the caller can resubmit a copy with those names in
// RenameFiles.
type ErrorDetails struct {
	Code       string   `json:"code,omitempty"`
	Message    string   `json:"message"`
	FileExists []string `json:"fileExists,omitempty"`
}

// Details is the inspection payload for the details action.
type Details struct {
	Name          string `json:"name"`
	Location      string `json:"location"`
	IsFile        bool   `json:"isFile"`
	Size          string `json:"size"`
	Created       string `json:"created"`
	Modified      string `json:"modified"`
	MultipleFiles bool   `json:"multipleFiles"`
}

// Response is the uniform envelope every action answers with. Exactly one of
// Files/Details carries data per action family; construct instances through
// the helpers below so that holds by construction.
type Response struct {
	Cwd     *Item         `json:"cwd"`
	Files   []Item        `json:"files"`
	Error   *ErrorDetails `json:"error"`
	Details *Details      `json:"details"`

	// DocCount reports the store's current maximum id on read responses. The
	// editing client allocates ids for new documents as DocCount+1 from this
	// snapshot, which is racy across sessions; see the package notes in
	// service.go.
	DocCount int64 `json:"docCount,omitempty"`
}

func newFilesResponse(cwd *Item, files []Item) Response {
	return Response{Cwd: cwd, Files: files}
}

func newErrorResponse(message string) Response {
	return Response{Files: []Item{}, Error: &ErrorDetails{Message: message}}
}

func newDetailsResponse(details *Details) Response {
	return Response{Details: details}
}

// itemFromDocument maps a stored record to its listing descriptor.
func itemFromDocument(doc Document) Item {
	return Item{
		Name:         doc.Name,
		Size:         int64(len(doc.Content)),
		DateModified: doc.ModifiedAt,
		DateCreated:  doc.CreatedAt,
		HasChild:     false,
		IsFile:       true,
		Type:         extension(doc.Name),
		FilterPath:   `\`,
		ID:           strconv.FormatInt(doc.ID, 10),
	}
}

// rootFolder synthesizes the flat namespace's pseudo-directory.
func rootFolder() *Item {
	now := time.Now().UTC()
	return &Item{
		Name:         "Documents",
		DateModified: now,
		DateCreated:  now,
		HasChild:     true,
		IsFile:       false,
		FilterPath:   "",
	}
}

// searchFolder is the pseudo-directory returned with search results.
func searchFolder() *Item {
	now := time.Now().UTC()
	return &Item{
		Name:         "files",
		DateModified: now,
		DateCreated:  now.AddDate(0, -1, 0),
		HasChild:     true,
		IsFile:       false,
		FilterPath:   "//",
	}
}
