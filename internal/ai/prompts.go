package ai

import (
	"fmt"
	"strings"
)

const maxCodeChars = 12000

func diagnosePrompt(req DiagnoseRequest) string {
	var b strings.Builder
	b.WriteString("You are a senior engineer supporting the RoadSide+ dashboard team.\n")
	b.WriteString("Diagnose the error below. Answer in markdown with the sections ")
	b.WriteString("\"## Root Cause\", \"## Fix\" and \"## Prevention\". Use bullet points for steps.\n\n")
	if req.Platform != "" {
		fmt.Fprintf(&b, "Platform: %s\n", req.Platform)
	}
	fmt.Fprintf(&b, "Error message:\n%s\n", strings.TrimSpace(req.Error))
	if s := strings.TrimSpace(req.StackTrace); s != "" {
		fmt.Fprintf(&b, "\nStack trace:\n%s\n", s)
	}
	if s := strings.TrimSpace(req.Context); s != "" {
		fmt.Fprintf(&b, "\nAdditional context:\n%s\n", s)
	}
	return b.String()
}

func reviewPrompt(req ReviewRequest) string {
	code := req.Code
	truncated := false
	if len(code) > maxCodeChars {
		code = code[:maxCodeChars]
		truncated = true
	}

	lang := req.Language
	if lang == "" {
		lang = "the detected language"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Review the following %s code.\n", lang)
	b.WriteString("Answer in markdown with the sections \"## Summary\", \"## Issues\", ")
	b.WriteString("\"## Suggestions\", \"## Security\" and \"## Performance\". ")
	b.WriteString("Put one finding per bullet point.\n")
	if req.Focus != "" {
		fmt.Fprintf(&b, "Pay particular attention to: %s\n", req.Focus)
	}
	if truncated {
		fmt.Fprintf(&b, "The code was truncated to the first %d characters.\n", maxCodeChars)
	}
	fmt.Fprintf(&b, "\n```%s\n%s\n```\n", req.Language, code)
	return b.String()
}
