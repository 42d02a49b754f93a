package rag

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var bracePattern = regexp.MustCompile(`\{[^{}]+\}`)

// RandomNoResult picks one entry from the fixed apology pool.
func RandomNoResult() string {
	return NoResultMessages[rand.Intn(len(NoResultMessages))]
}

// Recover salvages a structured result from raw model text that did not
// honor the declared schema. It never panics: any internal fault degrades
// to a random no-result message with salvaged=false. A best-effort
// fallback, not a parser of record.
func Recover(raw string) (out map[string]any, salvaged bool) {
	defer func() {
		if r := recover(); r != nil {
			out = map[string]any{"message_res": RandomNoResult()}
			salvaged = false
		}
	}()

	var direct map[string]any
	if err := json.Unmarshal([]byte(raw), &direct); err == nil && direct != nil {
		return direct, true
	}

	var items []map[string]any
	for _, fragment := range bracePattern.FindAllString(raw, -1) {
		item, err := parseLooseObject(fragment)
		if err != nil {
			continue
		}
		items = append(items, item)
	}

	message := extractMessage(raw)

	if len(items) == 0 && message == "" {
		return map[string]any{"message_res": RandomNoResult()}, false
	}
	out = map[string]any{}
	if len(items) > 0 {
		out["menus"] = items
	}
	if message != "" {
		out["message_res"] = message
	}
	return out, true
}

// extractMessage slices a message_res value out of non-JSON text: locate
// the key, take the substring after it and trim one layer of quotes,
// braces and newlines.
func extractMessage(raw string) string {
	if !strings.Contains(raw, "message_res") {
		return ""
	}
	normalized := strings.ReplaceAll(raw, `"`, "'")
	parts := strings.SplitN(normalized, "message_res':", 2)
	if len(parts) < 2 {
		return ""
	}
	value := strings.TrimSpace(parts[1])
	if strings.HasPrefix(value, "'") {
		value = value[1:]
	}
	if strings.HasSuffix(value, "'") {
		value = value[:len(value)-1]
	}
	value = strings.ReplaceAll(value, "}", "")
	value = strings.ReplaceAll(value, "\n", "")
	return strings.TrimSpace(value)
}

// parseLooseObject decodes one flat brace-delimited object in the relaxed
// literal style models tend to emit: single- or double-quoted strings,
// bare numbers and booleans, string lists.
func parseLooseObject(fragment string) (map[string]any, error) {
	p := &looseParser{input: []rune(fragment)}
	obj, err := p.parseObject()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, errors.New("trailing content after object")
	}
	return obj, nil
}

type looseParser struct {
	input []rune
	pos   int
}

func (p *looseParser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(p.input[p.pos]) {
		p.pos++
	}
}

func (p *looseParser) expect(r rune) error {
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != r {
		return fmt.Errorf("expected %q at offset %d", r, p.pos)
	}
	p.pos++
	return nil
}

func (p *looseParser) peek() (rune, bool) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *looseParser) parseObject() (map[string]any, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	out := map[string]any{}
	if r, ok := p.peek(); ok && r == '}' {
		p.pos++
		return out, nil
	}
	for {
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		out[key] = value
		r, ok := p.peek()
		if !ok {
			return nil, errors.New("unterminated object")
		}
		switch r {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return out, nil
		default:
			return nil, fmt.Errorf("unexpected %q in object", r)
		}
	}
}

func (p *looseParser) parseValue() (any, error) {
	r, ok := p.peek()
	if !ok {
		return nil, errors.New("unexpected end of input")
	}
	switch {
	case r == '\'' || r == '"':
		return p.parseString()
	case r == '[':
		return p.parseList()
	case r == '-' || unicode.IsDigit(r):
		return p.parseNumber()
	default:
		return p.parseWord()
	}
}

func (p *looseParser) parseString() (string, error) {
	r, ok := p.peek()
	if !ok || (r != '\'' && r != '"') {
		return "", errors.New("expected quoted string")
	}
	quote := r
	p.pos++
	var sb strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '\\' && p.pos+1 < len(p.input) {
			sb.WriteRune(p.input[p.pos+1])
			p.pos += 2
			continue
		}
		if c == quote {
			p.pos++
			return sb.String(), nil
		}
		sb.WriteRune(c)
		p.pos++
	}
	return "", errors.New("unterminated string")
}

func (p *looseParser) parseList() (any, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	var out []any
	if r, ok := p.peek(); ok && r == ']' {
		p.pos++
		return out, nil
	}
	for {
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		out = append(out, value)
		r, ok := p.peek()
		if !ok {
			return nil, errors.New("unterminated list")
		}
		switch r {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return out, nil
		default:
			return nil, fmt.Errorf("unexpected %q in list", r)
		}
	}
}

func (p *looseParser) parseNumber() (any, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if unicode.IsDigit(c) || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		break
	}
	token := string(p.input[start:p.pos])
	if n, err := strconv.ParseInt(token, 10, 64); err == nil {
		return float64(n), nil
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("invalid number %q", token)
}

func (p *looseParser) parseWord() (any, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) && unicode.IsLetter(p.input[p.pos]) {
		p.pos++
	}
	switch strings.ToLower(string(p.input[start:p.pos])) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unrecognized token at offset %d", start)
	}
}
