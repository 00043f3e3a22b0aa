package koref

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/edsrzf/mmap-go"
)

// ErrMalformedCoNLLU is returned when a CoNLL-U line cannot be read.
var ErrMalformedCoNLLU = errors.New("malformed CoNLL-U")

// ReadCoNLLU reads CoNLL-U from r. A "# newdoc" comment starts a new
// document; input without such comments yields a single document.
// Multiword token ranges ("1-2") and empty nodes ("1.1") are skipped.
func ReadCoNLLU(r io.Reader) ([]*Document, error) {
	var (
		docs    []*Document
		docID   string
		sents   []SentenceRows
		cur     SentenceRows
		started bool
	)
	flushSentence := func() {
		if len(cur.Rows) > 0 {
			sents = append(sents, cur)
		}
		cur = SentenceRows{}
	}
	flushDocument := func() error {
		flushSentence()
		if len(sents) == 0 && !started {
			return nil
		}
		d, err := NewDocument(docID, sents)
		if err != nil {
			return fmt.Errorf("document %q: %w", docID, err)
		}
		docs = append(docs, d)
		sents = nil
		return nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		switch {
		case strings.TrimSpace(line) == "":
			flushSentence()
		case strings.HasPrefix(line, "#"):
			key, value := commentPair(line)
			switch key {
			case "newdoc", "newdoc id":
				if err := flushDocument(); err != nil {
					return nil, err
				}
				docID, started = value, true
			case "sent_id":
				cur.ID = value
			case "text":
				cur.Text = value
			}
		default:
			row, skip, err := parseRow(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if !skip {
				cur.Rows = append(cur.Rows, row)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read CoNLL-U: %w", err)
	}
	if err := flushDocument(); err != nil {
		return nil, err
	}
	return docs, nil
}

// ParseCoNLLU parses CoNLL-U held in a string.
func ParseCoNLLU(s string) ([]*Document, error) {
	return ReadCoNLLU(strings.NewReader(s))
}

// ReadCoNLLUFile memory-maps path and reads it as CoNLL-U.
func ReadCoNLLUFile(path string) ([]*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return nil, nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	defer m.Unmap()

	docs, err := ReadCoNLLU(bytes.NewReader(m))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

func commentPair(line string) (key, value string) {
	body := strings.TrimSpace(strings.TrimPrefix(line, "#"))
	k, v, ok := strings.Cut(body, "=")
	if !ok {
		return body, ""
	}
	return strings.TrimSpace(k), strings.TrimSpace(v)
}

func parseRow(line string) (row Row, skip bool, err error) {
	cols := strings.Split(line, "\t")
	if len(cols) != 10 {
		return Row{}, false, fmt.Errorf("%d columns, want 10: %w", len(cols), ErrMalformedCoNLLU)
	}
	if strings.ContainsAny(cols[0], "-.") {
		return Row{}, true, nil
	}
	id, err := strconv.Atoi(cols[0])
	if err != nil {
		return Row{}, false, fmt.Errorf("id %q: %w", cols[0], ErrMalformedCoNLLU)
	}
	head := 0
	if cols[6] != "_" {
		head, err = strconv.Atoi(cols[6])
		if err != nil {
			return Row{}, false, fmt.Errorf("head %q: %w", cols[6], ErrMalformedCoNLLU)
		}
	}
	return Row{
		ID:    id,
		Form:  cols[1],
		Lemma: cols[2],
		UPOS:  cols[3],
		XPOS:  cols[4],
		Feats: cols[5],
		Head:  head,
		Dep:   cols[7],
		Misc:  cols[9],
	}, false, nil
}
