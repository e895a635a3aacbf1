// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	clierrors "paperassist/cli/internal/errors"
)

// Endpoint paths, relative to the configured base origin.
const (
	PathHealth          = "/"
	PathSignup          = "/signup/"
	PathToken           = "/token/"
	PathUploadPaper     = "/upload-paper/"
	PathListPapers      = "/list-papers/"
	PathRecommendPapers = "/recommend-papers/"
	PathSummarizeFull   = "/summarize-full/"
	PathSummarizeQuery  = "/summarize-query/"
	PathGlobalQuery     = "/global-query/"
	PathModels          = "/models/"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// request describes one call. It is built per invocation and discarded.
type request struct {
	method       string
	path         string
	query        url.Values
	body         []byte
	contentType  string
	requiresAuth bool
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return clierrors.Validationf("%s is required", field)
	}
	return nil
}

func jsonRequest(path string, requiresAuth bool, v any) (request, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return request{}, err
	}
	return request{
		method:       http.MethodPost,
		path:         path,
		body:         b,
		contentType:  contentTypeJSON,
		requiresAuth: requiresAuth,
	}, nil
}

func healthRequest() request {
	return request{method: http.MethodGet, path: PathHealth}
}

func signupRequest(username, password string) (request, error) {
	if err := required("username", username); err != nil {
		return request{}, err
	}
	if err := required("password", password); err != nil {
		return request{}, err
	}
	return jsonRequest(PathSignup, false, signupBody{Username: username, Password: password})
}

func loginRequest(username, password string) (request, error) {
	if err := required("username", username); err != nil {
		return request{}, err
	}
	if err := required("password", password); err != nil {
		return request{}, err
	}
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	return request{
		method:      http.MethodPost,
		path:        PathToken,
		body:        []byte(form.Encode()),
		contentType: contentTypeForm,
	}, nil
}

// uploadRequest encodes file as the sole "file" field of a multipart body.
func uploadRequest(file Upload) (request, error) {
	name := filepath.Base(strings.TrimSpace(file.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return request{}, clierrors.Validationf("file name is required")
	}
	if file.Content == nil {
		return request{}, clierrors.Validationf("file content is required")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return request{}, err
	}
	n, err := io.Copy(part, file.Content)
	if err != nil {
		return request{}, fmt.Errorf("read %s: %w", name, err)
	}
	if n == 0 {
		return request{}, clierrors.Validationf("file %s is empty", name)
	}
	if err := mw.Close(); err != nil {
		return request{}, err
	}
	return request{
		method:       http.MethodPost,
		path:         PathUploadPaper,
		body:         buf.Bytes(),
		contentType:  mw.FormDataContentType(),
		requiresAuth: true,
	}, nil
}

func listPapersRequest() request {
	return request{method: http.MethodGet, path: PathListPapers, requiresAuth: true}
}

func recommendPapersRequest(keyword string) (request, error) {
	if err := required("keyword", keyword); err != nil {
		return request{}, err
	}
	return request{
		method:       http.MethodGet,
		path:         PathRecommendPapers,
		query:        url.Values{"keyword": []string{keyword}},
		requiresAuth: true,
	}, nil
}

func summarizeFullRequest(paperID, model string) (request, error) {
	if err := required("paper id", paperID); err != nil {
		return request{}, err
	}
	if err := required("model", model); err != nil {
		return request{}, err
	}
	return jsonRequest(PathSummarizeFull, true, summarizeFullBody{PaperID: paperID, Model: model})
}

func summarizeQueryRequest(paperID, query string, topK int, model string) (request, error) {
	if err := required("paper id", paperID); err != nil {
		return request{}, err
	}
	if err := required("query", query); err != nil {
		return request{}, err
	}
	if topK < 1 {
		return request{}, clierrors.Validationf("top k must be at least 1, got %d", topK)
	}
	if err := required("model", model); err != nil {
		return request{}, err
	}
	return jsonRequest(PathSummarizeQuery, true, summarizeQueryBody{
		PaperID: paperID,
		Query:   query,
		TopK:    topK,
		Model:   model,
	})
}

func globalQueryRequest(q GlobalQuery) (request, error) {
	if err := required("query", q.Query); err != nil {
		return request{}, err
	}
	if err := required("model", q.Model); err != nil {
		return request{}, err
	}
	if q.TopK < 0 {
		return request{}, clierrors.Validationf("top k must not be negative, got %d", q.TopK)
	}
	return jsonRequest(PathGlobalQuery, true, globalQueryBody{
		Query:     q.Query,
		Model:     q.Model,
		TopK:      q.TopK,
		UsePapers: q.UsePapers,
	})
}

func listModelsRequest() request {
	return request{method: http.MethodGet, path: PathModels, requiresAuth: true}
}

// UploadPaper calls POST /upload-paper/ with a multipart body.
func (h *HTTP) UploadPaper(ctx context.Context, file Upload) (*UploadResult, error) {
	r, err := uploadRequest(file)
	if err != nil {
		return nil, err
	}
	var out UploadResult
	if err := h.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPapers calls GET /list-papers/. An empty listing is an empty, non-nil slice.
func (h *HTTP) ListPapers(ctx context.Context) ([]Paper, error) {
	var out listPapersResponse
	if err := h.do(ctx, listPapersRequest(), &out); err != nil {
		return nil, err
	}
	if out.Papers == nil {
		return []Paper{}, nil
	}
	return out.Papers, nil
}

// RecommendPapers calls GET /recommend-papers/?keyword=<keyword>.
func (h *HTTP) RecommendPapers(ctx context.Context, keyword string) ([]Paper, error) {
	r, err := recommendPapersRequest(keyword)
	if err != nil {
		return nil, err
	}
	var out recommendPapersResponse
	if err := h.do(ctx, r, &out); err != nil {
		return nil, err
	}
	if out.RecommendedPapers == nil {
		return []Paper{}, nil
	}
	return out.RecommendedPapers, nil
}

// SummarizeFull calls POST /summarize-full/.
func (h *HTTP) SummarizeFull(ctx context.Context, paperID, model string) (*Summary, error) {
	r, err := summarizeFullRequest(paperID, model)
	if err != nil {
		return nil, err
	}
	var out Summary
	if err := h.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SummarizeQuery calls POST /summarize-query/.
func (h *HTTP) SummarizeQuery(ctx context.Context, paperID, query string, topK int, model string) (*Answer, error) {
	r, err := summarizeQueryRequest(paperID, query, topK, model)
	if err != nil {
		return nil, err
	}
	var out Answer
	if err := h.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GlobalQuery calls POST /global-query/.
func (h *HTTP) GlobalQuery(ctx context.Context, q GlobalQuery) (*Answer, error) {
	r, err := globalQueryRequest(q)
	if err != nil {
		return nil, err
	}
	var out Answer
	if err := h.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListModels calls GET /models/.
func (h *HTTP) ListModels(ctx context.Context) ([]string, error) {
	var out listModelsResponse
	if err := h.do(ctx, listModelsRequest(), &out); err != nil {
		return nil, err
	}
	if out.SupportedModels == nil {
		return []string{}, nil
	}
	return out.SupportedModels, nil
}
