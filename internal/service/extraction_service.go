package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"tlcintake/internal/classify"
	"tlcintake/internal/config"
	"tlcintake/internal/domain"
	"tlcintake/internal/normalize"
	"tlcintake/internal/port"
	"tlcintake/internal/session"
)

// DocumentUploadInput is the DTO for a single in-session document upload.
type DocumentUploadInput struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// ExtractionService runs uploaded documents through validation, storage and
// model extraction, and feeds the results back into a session.
type ExtractionService interface {
	ProcessUpload(ctx context.Context, sess *session.Session, input DocumentUploadInput) (session.Prompt, error)
	ExtractBatch(ctx context.Context, applicationID string, inputs []DocumentUploadInput, nctx normalize.Context) (*normalize.Result, map[domain.DocumentTag]string, error)
}

type extractionService struct {
	extractor  port.DocumentExtractor
	storage    port.ObjectStorage
	storageCfg *config.StorageConfig
	timeout    time.Duration
	sem        chan struct{}
}

// NewExtractionService creates an ExtractionService. Concurrency bounds the
// number of simultaneous model calls across all sessions.
func NewExtractionService(
	extractor port.DocumentExtractor,
	storage port.ObjectStorage,
	storageCfg *config.StorageConfig,
	sessionCfg *config.SessionConfig,
) ExtractionService {
	concurrency := sessionCfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &extractionService{
		extractor:  extractor,
		storage:    storage,
		storageCfg: storageCfg,
		timeout:    time.Duration(sessionCfg.ExtractTimeoutSecs) * time.Second,
		sem:        make(chan struct{}, concurrency),
	}
}

// validatedFile is an upload that passed extension, size and magic-byte
// checks.
type validatedFile struct {
	filename    string
	ext         string
	contentType string
	data        []byte
}

func (s *extractionService) validate(input DocumentUploadInput) (*validatedFile, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.storageCfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(input.File, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// The declared extension is not trusted; sniff the magic bytes.
	sniffLen := len(data)
	if sniffLen > 512 {
		sniffLen = 512
	}
	detected := http.DetectContentType(data[:sniffLen])
	if _, ok := domain.AllowedContentTypes[detected]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	return &validatedFile{
		filename:    input.Header.Filename,
		ext:         ext,
		contentType: domain.ContentTypeForFileType[fileType],
		data:        data,
	}, nil
}

func (s *extractionService) store(ctx context.Context, applicationID string, tag domain.DocumentTag, file *validatedFile) (string, error) {
	key := fmt.Sprintf("applications/%s/%s.%s", applicationID, tag, file.ext)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.storageCfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(file.data),
		ContentType: file.contentType,
		Size:        int64(len(file.data)),
	})
	if err != nil {
		log.Printf("extractionService: storing %s for application %s failed: %v", tag, applicationID, err)
		return "", domain.ErrUploadFailed
	}
	return key, nil
}

func (s *extractionService) extract(ctx context.Context, files []port.DocumentFile, nctx normalize.Context) (*normalize.Result, error) {
	s.sem <- struct{}{}
	defer func() { <-s.sem }()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.extractor.Extract(ctx, port.ExtractInput{Files: files})
	if err != nil {
		return nil, err
	}
	return normalize.Normalize(out.RawDocuments, nctx)
}

// ProcessUpload drives one document slot of a session: validate the file,
// persist it, extract and normalize it, and hand the result to the session
// for staging. Validation failures are returned to the caller without
// claiming the slot; extraction failures are absorbed into the session's
// retry flow.
func (s *extractionService) ProcessUpload(ctx context.Context, sess *session.Session, input DocumentUploadInput) (session.Prompt, error) {
	tag, err := sess.UploadTag()
	if err != nil {
		return session.Prompt{}, err
	}

	file, err := s.validate(input)
	if err != nil {
		return session.Prompt{}, err
	}

	if err := sess.TryBeginExtraction(tag); err != nil {
		return session.Prompt{}, err
	}

	storedRef, err := s.store(ctx, sess.Record().ApplicationID, tag, file)
	if err != nil {
		return sess.CompleteExtraction(tag, "", nil, err)
	}

	result, err := s.extract(ctx, []port.DocumentFile{{
		Filename:    file.filename,
		ContentType: file.contentType,
		Bytes:       file.data,
		TypeHint:    tag,
	}}, sess.NormalizeContext())
	if err != nil {
		log.Printf("extractionService: extraction for %s failed: %v", tag, err)
		return sess.CompleteExtraction(tag, storedRef, nil, err)
	}

	return sess.CompleteExtraction(tag, storedRef, result, nil)
}

// ExtractBatch validates, stores and extracts a set of documents in one model
// call, outside any session. The filename drives the type hint per file.
// Returns the normalized result and the stored reference per recognized slot.
func (s *extractionService) ExtractBatch(ctx context.Context, applicationID string, inputs []DocumentUploadInput, nctx normalize.Context) (*normalize.Result, map[domain.DocumentTag]string, error) {
	if len(inputs) == 0 {
		return nil, nil, domain.ErrUnexpectedInput
	}

	files := make([]port.DocumentFile, 0, len(inputs))
	refs := make(map[domain.DocumentTag]string, len(inputs))
	for _, input := range inputs {
		file, err := s.validate(input)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", input.Header.Filename, err)
		}

		tag := classify.Detect(file.filename)
		if tag != domain.TagUnknown {
			ref, err := s.store(ctx, applicationID, tag, file)
			if err != nil {
				return nil, nil, err
			}
			refs[tag] = ref
		}

		files = append(files, port.DocumentFile{
			Filename:    file.filename,
			ContentType: file.contentType,
			Bytes:       file.data,
			TypeHint:    tag,
		})
	}

	result, err := s.extract(ctx, files, nctx)
	if err != nil {
		return nil, nil, err
	}
	return result, refs, nil
}
