// Package listener wraps terminal line input so background output (streamed
// suggestion chunks, engine notices) can print above the prompt without
// mangling what the user is typing.
package listener

import (
	"fmt"
	"strings"
	"sync"

	"github.com/chzyer/readline"
)

var rl *readline.Instance
var mu sync.Mutex

func Init() error {
	var err error
	rl, err = readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "",
		EOFPrompt:       "",
	})
	return err
}

func Close() {
	if rl != nil {
		_ = rl.Close()
	}
}

// GetInput blocks for one line. EOF and interrupts read as empty input.
func GetInput() string {
	if rl == nil {
		return ""
	}
	line, err := rl.Readline()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// AsyncPrintln prints above the active prompt and redraws it.
func AsyncPrintln(s string) {
	mu.Lock()
	defer mu.Unlock()
	if rl == nil {
		fmt.Println(s)
		return
	}
	_, _ = rl.Write([]byte("\r\n" + s + "\r\n"))
	rl.Refresh()
}

// AskYesNo loops until the user answers y or n.
func AskYesNo(question string) bool {
	AsyncPrintln(question + " [y/n]")
	for {
		switch GetInput() {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		AsyncPrintln("Please answer y/n.")
	}
}
