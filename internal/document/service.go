// Package document implements the server side of the editor's file manager: a
// flat repository of binary documents with listing, deletion, inspection,
// search, copy-with-rename conflict resolution, save/upsert and bundled
// download.
//
// Two races are intrinsic to the protocol and deliberately left in place:
// ids for new documents are allocated client-side from the maximum id a read
// response reported, so two sessions can compute the same next id (the fix,
// server-issued atomic ids, would change the external contract), and
// concurrent saves under one name are last-write-wins with no concurrency
// token.
package document

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"document-storage-server/internal/apperr"
	"document-storage-server/internal/metrics"
	"document-storage-server/redis"
)

// Service is the operation dispatcher plus the dedicated editor endpoints'
// logic.
type Service interface {
	// Dispatch routes a file manager action to its handler. A non-nil error
	// is returned only for protocol-level failures (unknown action, store
	// outage); domain outcomes, including conflicts, travel inside Response.
	Dispatch(ctx context.Context, req ActionRequest) (Response, error)
	Fetch(ctx context.Context, id int64) (*Document, error)
	Save(ctx context.Context, id int64, name string, content []byte) error
	Exists(ctx context.Context, name string) (bool, error)
	Download(ctx context.Context, items []Item) (*DownloadPayload, error)
}

type DefaultService struct {
	repo     Repository
	resolver *ConflictResolver
	cache    *redis.Cache
	cacheTTL time.Duration
}

const listVersionKey = "docs:version"

func NewService(repo Repository, cache *redis.Cache, cacheTTL time.Duration) Service {
	return &DefaultService{
		repo:     repo,
		resolver: NewConflictResolver(repo),
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (s *DefaultService) Dispatch(ctx context.Context, req ActionRequest) (Response, error) {
	switch strings.ToLower(req.Action) {
	case "read":
		return s.list(ctx)
	case "delete":
		return s.delete(ctx, req.Data)
	case "details":
		return s.details(ctx, req.Path, req.Data)
	case "search":
		return s.search(ctx, req.SearchString, req.CaseSensitive)
	case "copy":
		return s.copy(ctx, req.Names, req.Data, req.RenameFiles)
	case "":
		return Response{}, apperr.BadRequest("Missing action", nil)
	default:
		return Response{}, apperr.BadRequest(fmt.Sprintf("Unknown action: %s", req.Action), nil)
	}
}

// list returns every stored document plus the current maximum id, which the
// client uses to allocate the next document id.
func (s *DefaultService) list(ctx context.Context) (Response, error) {
	version := s.cache.GetVersion(ctx, listVersionKey)
	cacheKey := fmt.Sprintf("docs:read:v:%d", version)

	var cached Response
	if found, _ := s.cache.Get(ctx, cacheKey, &cached); found {
		return cached, nil
	}

	docs, err := s.repo.All(ctx)
	if err != nil {
		return Response{}, apperr.Internal(err)
	}
	maxID, err := s.repo.MaxID(ctx)
	if err != nil {
		return Response{}, apperr.Internal(err)
	}

	files := make([]Item, 0, len(docs))
	for _, doc := range docs {
		files = append(files, itemFromDocument(doc))
	}

	resp := newFilesResponse(rootFolder(), files)
	resp.DocCount = maxID

	go s.cache.Set(context.Background(), cacheKey, resp, s.cacheTTL)

	return resp, nil
}

// delete removes every record whose id appears in the request. The echoed
// file list reflects the client-claimed metadata, not re-fetched state.
func (s *DefaultService) delete(ctx context.Context, data []Item) (Response, error) {
	if len(data) == 0 {
		return newErrorResponse("No files to delete."), nil
	}

	ids := make([]int64, 0, len(data))
	for _, item := range data {
		id, err := strconv.ParseInt(item.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	deleted, err := s.repo.DeleteByIDs(ctx, ids)
	if err != nil {
		return Response{}, apperr.Internal(err)
	}
	if deleted == 0 {
		return newErrorResponse("No matching files found."), nil
	}

	echoed := make([]Item, 0, len(data))
	for _, item := range data {
		item.ID = ""
		echoed = append(echoed, item)
	}

	s.cache.IncrementVersion(ctx, listVersionKey)

	return newFilesResponse(nil, echoed), nil
}

// details inspects a single item. Multi-select gets a fixed "Multiple Files"
// summary with no size or date aggregation; that simplification is part of
// the contract, not an omission.
func (s *DefaultService) details(ctx context.Context, path string, data []Item) (Response, error) {
	if len(data) == 0 {
		return newErrorResponse("No items provided for details."), nil
	}

	if len(data) > 1 {
		location := path
		if location == "" {
			location = `\`
		}
		return newDetailsResponse(&Details{
			Name:          "Multiple Files",
			Location:      location,
			IsFile:        false,
			MultipleFiles: true,
		}), nil
	}

	item := data[0]
	id, err := strconv.ParseInt(item.ID, 10, 64)
	if err != nil {
		return newErrorResponse("Item not found."), nil
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err == ErrNotFound {
		return newErrorResponse("Item not found."), nil
	}
	if err != nil {
		return Response{}, apperr.Internal(err)
	}

	location := item.FilterPath
	if location == "" {
		location = `\`
	}

	return newDetailsResponse(&Details{
		Name:          doc.Name,
		Location:      location,
		IsFile:        true,
		Size:          formatSize(int64(len(doc.Content))),
		Created:       doc.CreatedAt.Format(detailTimeFormat),
		Modified:      doc.ModifiedAt.Format(detailTimeFormat),
		MultipleFiles: false,
	}), nil
}

// search strips the literal characters * and ? from the query (they are not
// interpreted as wildcards) and substring-matches against document names.
func (s *DefaultService) search(ctx context.Context, searchString string, caseSensitive bool) (Response, error) {
	if strings.TrimSpace(searchString) == "" {
		return newErrorResponse("Search string is required."), nil
	}

	clean := strings.NewReplacer("*", "", "?", "").Replace(searchString)

	docs, err := s.repo.All(ctx)
	if err != nil {
		return Response{}, apperr.Internal(err)
	}

	needle := clean
	if !caseSensitive {
		needle = strings.ToLower(clean)
	}

	files := make([]Item, 0)
	for _, doc := range docs {
		haystack := doc.Name
		if !caseSensitive {
			haystack = strings.ToLower(doc.Name)
		}
		if !strings.Contains(haystack, needle) {
			continue
		}
		item := itemFromDocument(doc)
		item.FilterPath = fmt.Sprintf("//FileContents//%s", stem(doc.Name))
		files = append(files, item)
	}

	return newFilesResponse(searchFolder(), files), nil
}

// copy duplicates the source items, resolving name conflicts per item: a
// collision is any other record already using the candidate name. Collisions
// without a pre-approved rename are skipped and reported; pre-approved ones
// get a " (n)" suffix. The store maximum id is read once for the whole call
// and incremented monotonically per created record, so a multi-item copy
// never hands out duplicate ids.
func (s *DefaultService) copy(ctx context.Context, names []string, data []Item, renameFiles []string) (Response, error) {
	maxID, err := s.repo.MaxID(ctx)
	if err != nil {
		return Response{}, apperr.Internal(err)
	}
	nextID := maxID

	copied := make([]Item, 0, len(data))
	existFiles := make([]string, 0)
	now := time.Now().UTC()

	for i, src := range data {
		newName := src.Name
		if i < len(names) && names[i] != "" {
			newName = names[i]
		}

		sourceID, err := strconv.ParseInt(src.ID, 10, 64)
		if err != nil {
			continue
		}

		sourceDoc, err := s.repo.FindByID(ctx, sourceID)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return Response{}, apperr.Internal(err)
		}

		collides, err := s.resolver.Collides(ctx, newName, sourceID)
		if err != nil {
			return Response{}, apperr.Internal(err)
		}
		if collides {
			if !renameApproved(renameFiles, newName) {
				existFiles = append(existFiles, newName)
				continue
			}
			newName, err = s.resolver.UniqueName(ctx, newName)
			if err != nil {
				return Response{}, apperr.Internal(err)
			}
		}

		nextID++
		newDoc := &Document{
			ID:         nextID,
			Name:       newName,
			Content:    sourceDoc.Content,
			CreatedAt:  now,
			ModifiedAt: now,
		}
		if err := s.repo.Create(ctx, newDoc); err != nil {
			return Response{}, apperr.Internal(err)
		}
		copied = append(copied, itemFromDocument(*newDoc))
	}

	resp := newFilesResponse(rootFolder(), copied)
	if len(existFiles) > 0 {
		resp.Error = &ErrorDetails{
			Code:       "400",
			Message:    "File Already Exists",
			FileExists: existFiles,
		}
	}

	if len(copied) > 0 {
		s.cache.IncrementVersion(ctx, listVersionKey)
	}

	return resp, nil
}

// Fetch returns a document for editing. A persisted record with no content is
// surfaced as a retrieval error rather than handed to the editor.
func (s *DefaultService) Fetch(ctx context.Context, id int64) (*Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err == ErrNotFound {
		return nil, apperr.NotFound("Document not found", err)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(doc.Content) == 0 {
		return nil, apperr.Internal(fmt.Errorf("document %d has no stored content", id))
	}
	return doc, nil
}

// Save upserts a document. Identity resolution is deliberately dual: the
// lookup is by name (the autosaving client always knows the name), and only
// when no record carries the name is the caller-supplied id used to insert a
// new one. Concurrent saves under one name are last-write-wins.
func (s *DefaultService) Save(ctx context.Context, id int64, name string, content []byte) error {
	now := time.Now().UTC()

	existing, err := s.repo.FindByName(ctx, name)
	switch {
	case err == nil:
		if err := s.repo.UpdateContent(ctx, existing.ID, content, now); err != nil {
			return apperr.Internal(err)
		}
		metrics.DocumentSaves.WithLabelValues("update").Inc()
	case err == ErrNotFound:
		newDoc := &Document{
			ID:         id,
			Name:       name,
			Content:    content,
			CreatedAt:  now,
			ModifiedAt: now,
		}
		if err := s.repo.Create(ctx, newDoc); err != nil {
			return apperr.Internal(err)
		}
		metrics.DocumentSaves.WithLabelValues("insert").Inc()
	default:
		return apperr.Internal(err)
	}

	s.cache.IncrementVersion(ctx, listVersionKey)
	return nil
}

// Exists reports whether any record's name equals the candidate exactly and
// case-sensitively. This advisory check is the only place name uniqueness is
// enforced; the store itself permits duplicates.
func (s *DefaultService) Exists(ctx context.Context, name string) (bool, error) {
	exists, err := s.repo.NameExists(ctx, name)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return exists, nil
}

// Download resolves the requested items to either a single raw document or an
// in-memory zip archive. Missing ids in a multi-item request are silently
// skipped; the archive is fully materialized before returning.
func (s *DefaultService) Download(ctx context.Context, items []Item) (*DownloadPayload, error) {
	if len(items) == 0 {
		return nil, apperr.BadRequest("No files to download.", nil)
	}

	if len(items) == 1 {
		id, err := strconv.ParseInt(items[0].ID, 10, 64)
		if err != nil {
			return nil, apperr.BadRequest("Invalid file ID.", err)
		}
		doc, err := s.repo.FindByID(ctx, id)
		if err == ErrNotFound {
			return nil, apperr.NotFound("File not found or is empty.", err)
		}
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if len(doc.Content) == 0 {
			return nil, apperr.NotFound("File not found or is empty.", nil)
		}
		return &DownloadPayload{
			FileName:    doc.Name,
			ContentType: contentTypeFor(doc.Name),
			Data:        doc.Content,
		}, nil
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		id, err := strconv.ParseInt(item.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	docs, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	archive, err := buildArchive(docs)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &DownloadPayload{
		FileName:    "Documents.zip",
		ContentType: "application/zip",
		Data:        archive,
	}, nil
}
