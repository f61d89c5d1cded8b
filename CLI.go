package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jack-and-rozz/occult/vocab"
)

// ChatCLI reads lines from in until "exit" or EOF. A plain line is encoded
// and its tokens and ids are printed; a line starting with "ids:" is decoded.
func ChatCLI(v *vocab.WordVocabulary, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	fmt.Fprintln(out, "Type a sentence to encode, 'ids: 3 4 5' to decode, 'exit' to quit.")
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			break
		}
		input := strings.TrimSpace(sc.Text())
		if input == "exit" {
			break
		}
		if rest, ok := strings.CutPrefix(input, "ids:"); ok {
			ids, err := parseIDs(rest)
			if err != nil {
				fmt.Fprintln(out, "Error:", err)
				continue
			}
			fmt.Fprintln(out, "Text:", v.IDs2Sent(ids))
			continue
		}

		ids := append([]int{v.BOSID()}, v.Sentence2IDs(input, 0)...)
		fmt.Fprintln(out, "Tokens:", strings.Join(v.Tokenizer().Tokenize(input), " "))
		fmt.Fprintln(out, "IDs:", ids)
	}
	return sc.Err()
}

func parseIDs(s string) ([]int, error) {
	fields := strings.Fields(s)
	ids := make([]int, len(fields))
	for i, f := range fields {
		id, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("id %q is not an integer", f)
		}
		ids[i] = id
	}
	return ids, nil
}
