package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Shameer29/GetLandedATS--sub001/internal/models"
	"github.com/Shameer29/GetLandedATS--sub001/pkg/utils"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// DefaultTemperature keeps scoring output stable across runs.
const DefaultTemperature = 0.1

// maxPromptResumeChars bounds how much resume text goes into one prompt.
const maxPromptResumeChars = 20000

// GeminiScorer scores resumes with the Gemini API, requesting strict JSON
// output.
type GeminiScorer struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

// NewGeminiScorer creates a scorer talking to the Gemini API. The model
// is configured for JSON responses at low temperature.
func NewGeminiScorer(ctx context.Context, apiKey, modelName string, temperature float32) (*GeminiScorer, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.ResponseMIMEType = "application/json"
	return &GeminiScorer{client: client, model: model, name: modelName}, nil
}

// Score evaluates the resume against the job description.
func (s *GeminiScorer) Score(ctx context.Context, resume *models.ResumeDocument, jobDescription string) (*models.ScoreReport, error) {
	prompt := buildPrompt(resume, jobDescription)
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &ScoreError{Stage: "generate", Err: err}
	}
	text, err := responseText(resp)
	if err != nil {
		return nil, &ScoreError{Stage: "response", Err: err}
	}
	return parseReport(text)
}

// Model returns the configured model name.
func (s *GeminiScorer) Model() string { return s.name }

// Close releases the underlying API client.
func (s *GeminiScorer) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// buildPrompt lays out the scoring request. The layout is fixed so cached
// scores stay valid across runs of the same resume/job pair.
func buildPrompt(resume *models.ResumeDocument, jobDescription string) string {
	var b strings.Builder
	b.WriteString("You are a strict applicant tracking system reviewer. ")
	b.WriteString("Evaluate the resume against the job description and respond with a single JSON object, no prose, using exactly these keys: ")
	b.WriteString(`{"overall": 0-100, "skills": 0-100, "experience": 0-100, "education": 0-100, "formatting": 0-100, "strengths": ["..."], "improvements": ["..."], "summary": "..."}`)
	b.WriteString("\n\nJob description:\n")
	b.WriteString(strings.TrimSpace(jobDescription))

	b.WriteString("\n\nResume sections detected: ")
	if kinds := resume.SectionKinds(); len(kinds) > 0 {
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = string(k)
		}
		b.WriteString(strings.Join(names, ", "))
	} else {
		b.WriteString("none")
	}

	if notes := layoutNotes(resume.Metadata); notes != "" {
		b.WriteString("\nLayout notes: ")
		b.WriteString(notes)
	}

	b.WriteString("\n\nResume text:\n")
	b.WriteString(utils.Truncate(resume.Text, maxPromptResumeChars))
	return b.String()
}

// layoutNotes summarizes extraction metadata for the prompt.
func layoutNotes(meta models.ExtractionMetadata) string {
	var notes []string
	if meta.HasTables {
		notes = append(notes, "uses tables")
	}
	if meta.HasImages {
		notes = append(notes, "contains images")
	}
	if meta.HasMultiColumn {
		notes = append(notes, fmt.Sprintf("%d-column layout", meta.ColumnCount))
	}
	return strings.Join(notes, "; ")
}

// responseText extracts the text payload from a Gemini response.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("no content in response")
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", errors.New("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

// cleanJSONBlock removes markdown code block wrappers from JSON.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// parseReport decodes the model output and clamps every score to 0-100.
func parseReport(text string) (*models.ScoreReport, error) {
	var report models.ScoreReport
	if err := json.Unmarshal([]byte(cleanJSONBlock(text)), &report); err != nil {
		return nil, &ScoreError{Stage: "parse", Err: err}
	}
	report.Overall = utils.Clamp(report.Overall, 0, 100)
	report.Skills = utils.Clamp(report.Skills, 0, 100)
	report.Experience = utils.Clamp(report.Experience, 0, 100)
	report.Education = utils.Clamp(report.Education, 0, 100)
	report.Formatting = utils.Clamp(report.Formatting, 0, 100)
	return &report, nil
}
