package docs

import (
	"bufio"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// TestTopics ensures the documentation stays in sync with itself:
// every topic listed in readme.md loads, and every topic file is
// listed in readme.md.
func TestTopics(t *testing.T) {
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topicsInReadme []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			topicsInReadme = append(topicsInReadme, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}
	if len(topicsInReadme) == 0 {
		t.Fatal("readme.md lists no topics")
	}

	for _, topic := range topicsInReadme {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := GetTopic(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() error = %v", err)
	}
	listed := make(map[string]bool)
	for _, topic := range topicsInReadme {
		listed[topic] = true
	}
	for _, topic := range all {
		if topic == "readme" {
			continue
		}
		if !listed[topic] {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

// TestTopicsStartWithHeading parses every topic with goldmark and
// checks it opens with a level-1 heading, which the terminal renderer
// relies on.
func TestTopicsStartWithHeading(t *testing.T) {
	all, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() error = %v", err)
	}

	parser := goldmark.DefaultParser()
	for _, topic := range all {
		t.Run(topic, func(t *testing.T) {
			content, err := GetTopic(topic)
			if err != nil {
				t.Fatalf("GetTopic() error = %v", err)
			}

			root := parser.Parse(text.NewReader([]byte(content)))
			first := root.FirstChild()
			heading, ok := first.(*ast.Heading)
			if !ok {
				t.Fatalf("topic %q does not start with a heading, got %T", topic, first)
			}
			if heading.Level != 1 {
				t.Errorf("topic %q starts with a level-%d heading, want level 1", topic, heading.Level)
			}
		})
	}
}
