package prompt

import (
	"fmt"
	"strings"
)

type token struct {
	tag  bool
	text string
}

func tokenize(src string) ([]token, error) {
	var toks []token
	for len(src) > 0 {
		open := strings.Index(src, "{{")
		if open < 0 {
			toks = append(toks, token{text: src})
			break
		}
		if open > 0 {
			toks = append(toks, token{text: src[:open]})
		}
		rest := src[open+2:]
		end := strings.Index(rest, "}}")
		if end < 0 {
			return nil, fmt.Errorf("%w: unclosed tag near %q", ErrSyntax, abbreviate(src[open:]))
		}
		tag := strings.TrimSpace(rest[:end])
		if tag == "" {
			return nil, fmt.Errorf("%w: empty tag", ErrSyntax)
		}
		toks = append(toks, token{tag: true, text: tag})
		src = rest[end+2:]
	}
	return toks, nil
}

type parser struct {
	toks []token
	pos  int
}

func parse(src string) ([]node, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	nodes, stop, err := p.parseNodes()
	if err != nil {
		return nil, err
	}
	if stop != "" {
		return nil, fmt.Errorf("%w: unexpected {{%s}}", ErrSyntax, stop)
	}
	return nodes, nil
}

// parseNodes consumes tokens until a closing tag or the end of input and
// reports which closing tag stopped it ("" at end of input).
func (p *parser) parseNodes() ([]node, string, error) {
	var nodes []node
	for p.pos < len(p.toks) {
		tok := p.toks[p.pos]
		p.pos++

		if !tok.tag {
			nodes = append(nodes, textNode(tok.text))
			continue
		}

		switch {
		case tok.text == "else" || tok.text == "/if" || tok.text == "/each":
			return nodes, tok.text, nil

		case strings.HasPrefix(tok.text, "#if "):
			path, err := blockPath(tok.text, "#if ")
			if err != nil {
				return nil, "", err
			}
			n := &ifNode{path: path}
			var stop string
			if n.then, stop, err = p.parseNodes(); err != nil {
				return nil, "", err
			}
			if stop == "else" {
				if n.otherwise, stop, err = p.parseNodes(); err != nil {
					return nil, "", err
				}
			}
			if stop != "/if" {
				return nil, "", fmt.Errorf("%w: {{#if %s}} is not closed", ErrSyntax, path)
			}
			nodes = append(nodes, n)

		case strings.HasPrefix(tok.text, "#each "):
			path, err := blockPath(tok.text, "#each ")
			if err != nil {
				return nil, "", err
			}
			body, stop, err := p.parseNodes()
			if err != nil {
				return nil, "", err
			}
			if stop != "/each" {
				return nil, "", fmt.Errorf("%w: {{#each %s}} is not closed", ErrSyntax, path)
			}
			nodes = append(nodes, &eachNode{path: path, body: body})

		case strings.HasPrefix(tok.text, "#") || strings.HasPrefix(tok.text, "/"):
			return nil, "", fmt.Errorf("%w: unknown block {{%s}}", ErrSyntax, tok.text)

		default:
			nodes = append(nodes, fieldNode(tok.text))
		}
	}
	return nodes, "", nil
}

func blockPath(tag, prefix string) (string, error) {
	path := strings.TrimSpace(strings.TrimPrefix(tag, prefix))
	if path == "" || strings.ContainsAny(path, " \t\n") {
		return "", fmt.Errorf("%w: bad path in {{%s}}", ErrSyntax, tag)
	}
	return path, nil
}

func abbreviate(s string) string {
	if len(s) > 24 {
		return s[:24] + "..."
	}
	return s
}
