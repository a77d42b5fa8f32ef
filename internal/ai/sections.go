package ai

import (
	"strings"
	"unicode"
)

// Section is one headed block of a model answer.
type Section struct {
	Title string   `json:"title"`
	Key   string   `json:"key"`
	Items []string `json:"items"`
}

// ParseSections splits a free-form answer into headed sections. A heading is a
// markdown "#" line, a line that is entirely bold ("**Issues**") or a line of at
// most four words ending in a colon. List items become one entry each, and so
// does a paragraph or a fenced code block. Text before the first heading goes to
// an "overview" section.
func ParseSections(text string) []Section {
	var (
		sections []Section
		cur      *Section
		para     []string
		fence    []string
		inFence  bool
		lastItem = -1
	)

	current := func() *Section {
		if cur == nil {
			sections = append(sections, Section{Title: "Overview", Key: "overview"})
			cur = &sections[len(sections)-1]
		}
		return cur
	}
	flushPara := func() {
		if len(para) == 0 {
			return
		}
		s := current()
		s.Items = append(s.Items, strings.Join(para, " "))
		para = nil
		lastItem = -1
	}

	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(line, "```") {
			if inFence {
				fence = append(fence, raw)
				s := current()
				s.Items = append(s.Items, strings.Join(fence, "\n"))
				fence = nil
				inFence = false
				lastItem = -1
				continue
			}
			flushPara()
			inFence = true
			fence = []string{raw}
			continue
		}
		if inFence {
			fence = append(fence, raw)
			continue
		}

		if line == "" {
			flushPara()
			lastItem = -1
			continue
		}

		if title, ok := headingTitle(line); ok {
			flushPara()
			sections = append(sections, Section{Title: title, Key: slug(title)})
			cur = &sections[len(sections)-1]
			lastItem = -1
			continue
		}

		if item, ok := listItem(line); ok {
			flushPara()
			s := current()
			s.Items = append(s.Items, item)
			lastItem = len(s.Items) - 1
			continue
		}

		// indented text under a list item continues that item
		if lastItem >= 0 && raw != line && len(raw) > 0 && (raw[0] == ' ' || raw[0] == '\t') {
			s := current()
			s.Items[lastItem] += " " + line
			continue
		}

		lastItem = -1
		para = append(para, line)
	}
	if inFence && len(fence) > 0 {
		s := current()
		s.Items = append(s.Items, strings.Join(fence, "\n"))
	}
	flushPara()

	out := sections[:0]
	for _, s := range sections {
		if s.Key == "overview" && len(s.Items) == 0 {
			continue
		}
		if s.Items == nil {
			s.Items = []string{}
		}
		out = append(out, s)
	}
	return out
}

func headingTitle(line string) (string, bool) {
	if strings.HasPrefix(line, "#") {
		t := strings.TrimSpace(strings.TrimLeft(line, "#"))
		t = strings.Trim(t, "*_ ")
		t = strings.TrimSuffix(t, ":")
		return t, t != ""
	}
	if strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") && len(line) > 4 {
		t := strings.TrimSpace(line[2 : len(line)-2])
		if strings.Contains(t, "**") {
			return "", false
		}
		t = strings.TrimSuffix(t, ":")
		return t, t != ""
	}
	if strings.HasSuffix(line, "**:") && strings.HasPrefix(line, "**") && len(line) > 5 {
		t := strings.TrimSpace(line[2 : len(line)-3])
		return t, t != "" && !strings.Contains(t, "**")
	}
	if strings.HasSuffix(line, ":") && len(line) <= 40 {
		if _, isItem := listItem(line); isItem {
			return "", false
		}
		t := strings.TrimSpace(strings.TrimSuffix(line, ":"))
		if t == "" || len(strings.Fields(t)) > 4 || strings.ContainsAny(t, ".,;:!?`") {
			return "", false
		}
		return t, true
	}
	return "", false
}

func listItem(line string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(line[len(marker):]), true
		}
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i+1 < len(line) && (line[i] == '.' || line[i] == ')') && line[i+1] == ' ' {
		return strings.TrimSpace(line[i+2:]), true
	}
	return "", false
}

func slug(title string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// Find returns the items of the first section whose key contains any of the
// given fragments.
func Find(sections []Section, fragments ...string) []string {
	for _, s := range sections {
		for _, f := range fragments {
			if strings.Contains(s.Key, f) {
				return s.Items
			}
		}
	}
	return nil
}
