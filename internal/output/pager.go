package output

import (
	"os"
	"os/exec"
	"strings"
)

// ShouldPage reports whether content should go through a pager: stdout is a
// terminal and the content is taller than termHeight lines.
func ShouldPage(content string, termHeight int) bool {
	if !isTerminal() || pagerCommand() == "" {
		return false
	}
	return strings.Count(content, "\n") > termHeight
}

// Page pipes content through the pager named by DECKDOC_PAGER or PAGER,
// falling back to "less -R" so colored output survives.
func Page(content string) error {
	fields := strings.Fields(pagerCommand())
	if len(fields) == 0 {
		_, err := os.Stdout.WriteString(content)
		return err
	}
	cmd := exec.Command(fields[0], fields[1:]...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// pagerCommand returns the pager to run. DECKDOC_PAGER="" disables paging.
func pagerCommand() string {
	if p, ok := os.LookupEnv("DECKDOC_PAGER"); ok {
		return strings.TrimSpace(p)
	}
	if p := strings.TrimSpace(os.Getenv("PAGER")); p != "" {
		return p
	}
	return "less -R"
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
