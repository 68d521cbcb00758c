package sequence

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadFASTA reads sequences over alphabet from a FASTA file.
func ReadFASTA(filename string, alphabet *Alphabet) ([]*Sequence, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	return ParseFASTA(file, alphabet)
}

// ParseFASTA parses FASTA records from a reader. Records without residues
// are skipped.
func ParseFASTA(r io.Reader, alphabet *Alphabet) ([]*Sequence, error) {
	sequences := make([]*Sequence, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var currentID, currentDesc string
	var currentBases strings.Builder

	flushSequence := func() error {
		if currentBases.Len() > 0 {
			seq, err := WithMetadata(currentBases.String(), currentID, currentDesc, alphabet)
			if err != nil {
				return fmt.Errorf("record %q: %w", currentID, err)
			}
			sequences = append(sequences, seq)
			currentBases.Reset()
		}
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if len(line) == 0 {
			continue
		}

		if line[0] == '>' {
			if err := flushSequence(); err != nil {
				return nil, err
			}

			parts := strings.SplitN(line[1:], " ", 2)
			currentID = parts[0]
			if len(parts) > 1 {
				currentDesc = parts[1]
			} else {
				currentDesc = ""
			}
		} else {
			currentBases.WriteString(line)
		}
	}

	if err := flushSequence(); err != nil {
		return nil, err
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	return sequences, nil
}
