package yastream

import (
	"context"
	"strings"
)

// Split re-chunks a text stream on sep. Pieces may span any number of input
// chunks; the text after the last separator is emitted when in is closed,
// unless it is empty. An empty sep forwards non-empty chunks unchanged.
//
// Example:
//
//	for record := range yastream.Split(ctx, chunks, ";") {
//	    handle(record)
//	}
func Split(ctx context.Context, in <-chan string, sep string) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)

		var pending strings.Builder

		for {
			select {
			case <-ctx.Done():
				return
			case chunk, ok := <-in:
				if !ok {
					if pending.Len() > 0 {
						send(ctx, out, pending.String())
					}

					return
				}

				if sep == "" {
					if chunk != "" && !send(ctx, out, chunk) {
						return
					}

					continue
				}

				pending.WriteString(chunk)

				rest := pending.String()

				for {
					piece, after, found := strings.Cut(rest, sep)
					if !found {
						break
					}

					if !send(ctx, out, piece) {
						return
					}

					rest = after
				}

				pending.Reset()
				pending.WriteString(rest)
			}
		}
	}()

	return out
}

// SplitLines splits on "\n" and strips a trailing "\r" from every line.
func SplitLines(ctx context.Context, in <-chan string) <-chan string {
	lines := Split(ctx, in, "\n")
	out := make(chan string)

	go func() {
		defer close(out)

		for line := range lines {
			if !send(ctx, out, strings.TrimSuffix(line, "\r")) {
				return
			}
		}
	}()

	return out
}
