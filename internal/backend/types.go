// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import "io"

// Paper is the service's view of an uploaded paper. Copies held by the client
// are not authoritative and go stale as soon as the service's set changes.
type Paper struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// Token is the result of a successful login exchange.
type Token struct {
	AccessToken string `json:"access_token" yaml:"access_token"`
	TokenType   string `json:"token_type" yaml:"token_type"`
}

// SignupResult is returned by a successful signup.
type SignupResult struct {
	Message string `json:"message" yaml:"message"`
}

// Upload is a file to send to the upload endpoint.
type Upload struct {
	Filename string
	Content  io.Reader
}

// UploadResult is returned by a successful upload.
type UploadResult struct {
	Message string `json:"message" yaml:"message"`
	PaperID string `json:"paper_id,omitempty" yaml:"paper_id,omitempty"`
}

// Summary is the result of summarising a whole paper.
type Summary struct {
	PaperID string `json:"paper_id,omitempty" yaml:"paper_id,omitempty"`
	Summary string `json:"summary" yaml:"summary"`
	Model   string `json:"model,omitempty" yaml:"model,omitempty"`
}

// Answer is the result of a question about one paper or about all of them.
type Answer struct {
	Query      string `json:"query,omitempty" yaml:"query,omitempty"`
	Answer     string `json:"answer" yaml:"answer"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
	UsedPapers *bool  `json:"used_papers,omitempty" yaml:"used_papers,omitempty"`
}

// GlobalQuery asks a question across all of the caller's papers.
// TopK and UsePapers are optional; zero values leave the service defaults in place.
type GlobalQuery struct {
	Query     string
	Model     string
	TopK      int
	UsePapers *bool
}

type signupBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type summarizeFullBody struct {
	PaperID string `json:"paper_id"`
	Model   string `json:"model"`
}

type summarizeQueryBody struct {
	PaperID string `json:"paper_id"`
	Query   string `json:"query"`
	TopK    int    `json:"top_k"`
	Model   string `json:"model"`
}

type globalQueryBody struct {
	Query     string `json:"query"`
	Model     string `json:"model"`
	TopK      int    `json:"top_k,omitempty"`
	UsePapers *bool  `json:"use_papers,omitempty"`
}

type listPapersResponse struct {
	Papers []Paper `json:"papers"`
}

type recommendPapersResponse struct {
	RecommendedPapers []Paper `json:"recommended_papers"`
}

type listModelsResponse struct {
	SupportedModels []string `json:"supported_models"`
}

type healthResponse struct {
	Message string `json:"message"`
}
