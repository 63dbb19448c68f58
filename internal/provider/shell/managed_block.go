package shell

import (
	"fmt"
	"sort"
	"strings"
)

const (
	blockStartFmt = "# >>> groundwork %s >>>"
	blockEndFmt   = "# <<< groundwork %s <<<"
)

// ReadManagedBlock extracts the content between the markers of the named
// section. Returns empty string if the block is not found.
func ReadManagedBlock(content, section string) string {
	start := fmt.Sprintf(blockStartFmt, section)
	end := fmt.Sprintf(blockEndFmt, section)

	startIdx := strings.Index(content, start)
	if startIdx == -1 {
		return ""
	}

	endIdx := strings.Index(content, end)
	if endIdx == -1 {
		return ""
	}

	blockStart := startIdx + len(start)
	if blockStart < len(content) && content[blockStart] == '\n' {
		blockStart++
	}

	if blockStart >= endIdx {
		return ""
	}

	return content[blockStart:endIdx]
}

// WriteManagedBlock replaces the named block in content, or appends it
// when no block exists yet. Everything outside the markers is untouched.
func WriteManagedBlock(content, section, block string) string {
	start := fmt.Sprintf(blockStartFmt, section)
	end := fmt.Sprintf(blockEndFmt, section)

	managedBlock := start + "\n" + block + end + "\n"

	startIdx := strings.Index(content, start)
	if startIdx == -1 {
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		return content + "\n" + managedBlock
	}

	endIdx := strings.Index(content, end)
	if endIdx == -1 {
		// Start marker without an end marker: replace through EOF.
		return content[:startIdx] + managedBlock
	}

	afterEnd := endIdx + len(end)
	if afterEnd < len(content) && content[afterEnd] == '\n' {
		afterEnd++
	}

	return content[:startIdx] + managedBlock + content[afterEnd:]
}

// renderEnvBlock produces sorted export lines for the env block.
func renderEnvBlock(env map[string]string) string {
	if len(env) == 0 {
		return ""
	}

	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "export %s=%q\n", k, env[k])
	}
	return b.String()
}

// renderAliasBlock produces sorted alias lines for the aliases block.
func renderAliasBlock(aliases map[string]string) string {
	if len(aliases) == 0 {
		return ""
	}

	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "alias %s=%q\n", k, aliases[k])
	}
	return b.String()
}
