package extract

import (
	"regexp"
	"strings"
)

// TemplateVersionMarker opens every CloudFormation document we expect the
// template session to produce.
const TemplateVersionMarker = "AWSTemplateFormatVersion"

// minScanLines is the minimum number of collected lines before a blank
// line terminates the line-scan strategy.
const minScanLines = 10

var (
	taggedFenceRe   = regexp.MustCompile("(?is)```ya?ml\\s*\\n(.*?)```")
	untaggedFenceRe = regexp.MustCompile("(?s)```\\s*\\n?(" + TemplateVersionMarker + ".*?)```")
)

// TemplateStrategy tries to pull a CloudFormation document out of raw
// session text. Strategies are applied in order, first match wins.
type TemplateStrategy func(text string) (string, bool)

var templateStrategies = []TemplateStrategy{
	TemplateFromTaggedFence,
	TemplateFromUntaggedFence,
	TemplateFromLineScan,
}

// Template extracts a CloudFormation template from session text. The
// second return value is false when every strategy missed and the fixed
// fallback document was substituted. The result is never empty.
func Template(text string) (string, bool) {
	for _, strategy := range templateStrategies {
		if tpl, ok := strategy(text); ok {
			return tpl, true
		}
	}
	return FallbackTemplate, false
}

// TemplateFromTaggedFence matches a ```yaml fenced code block.
func TemplateFromTaggedFence(text string) (string, bool) {
	m := taggedFenceRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	body := strings.TrimSpace(m[1])
	if body == "" {
		return "", false
	}
	return body, true
}

// TemplateFromUntaggedFence matches an untagged fenced block whose content
// starts with the format-version marker.
func TemplateFromUntaggedFence(text string) (string, bool) {
	m := untaggedFenceRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// TemplateFromLineScan collects contiguous lines starting at the first line
// carrying the version marker or a Resources: key, stopping at the first
// blank line after minScanLines lines.
func TemplateFromLineScan(text string) (string, bool) {
	var collected []string
	inDoc := false
	for _, line := range strings.Split(text, "\n") {
		if !inDoc && (strings.Contains(line, TemplateVersionMarker) || strings.Contains(line, "Resources:")) {
			inDoc = true
		}
		if inDoc {
			collected = append(collected, line)
			if strings.TrimSpace(line) == "" && len(collected) > minScanLines {
				break
			}
		}
	}
	if len(collected) == 0 {
		return "", false
	}
	return strings.TrimRight(strings.Join(collected, "\n"), "\n "), true
}
