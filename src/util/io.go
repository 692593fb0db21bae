package util

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"time"
)

// ReadSource reads host-language source from a file or stdin: if path
// names a file it is read directly, otherwise the function waits
// briefly for piped stdin input and reports an error if none arrives in
// time.
func ReadSource(path string) (string, error) {
	if len(path) > 0 {
		b, err := ioutil.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("util: reading source %q: %w", path, err)
		}
		return string(b), nil
	}

	c := make(chan string)
	cerr := make(chan error)

	go func(c chan string, cerr chan error) {
		defer close(c)
		defer close(cerr)
		reader := bufio.NewReader(os.Stdin)
		// Piped input has no NUL terminator, so this always runs to EOF;
		// unlike a plain ReadString(0) check, an EOF still delivers
		// whatever text it already read rather than discarding it.
		text, err := reader.ReadString(0)
		if err == nil || (err == io.EOF && len(text) > 0) {
			c <- text
		} else {
			cerr <- err
		}
	}(c, cerr)

	select {
	case <-time.After(500 * time.Millisecond):
		return "", errors.New("util: expected source on stdin, got none")
	case s := <-c:
		return s, nil
	}
}
