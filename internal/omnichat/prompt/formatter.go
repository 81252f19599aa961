package prompt

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Find returns the path of the named template.
// Later directories take precedence over earlier ones.
func Find(fs afero.Fs, name string, promptDirs []string) (string, error) {
	promptFile := name
	if !strings.HasSuffix(promptFile, fileExt) {
		promptFile += fileExt
	}

	var promptPath string
	for _, promptDir := range promptDirs {
		candidatePath := filepath.Join(promptDir, filepath.FromSlash(promptFile))
		if ok, _ := afero.Exists(fs, candidatePath); ok {
			promptPath = candidatePath
		}
	}

	if promptPath == "" {
		return "", &NotFoundError{Name: promptFile, Dirs: promptDirs}
	}
	return promptPath, nil
}

// SystemPrompt renders the named template with key:value args.
// It returns the system prompt and the model specified in the template (if any).
func SystemPrompt(fs afero.Fs, name string, promptDirs []string, args []string) (string, *string, error) {
	promptPath, err := Find(fs, name, promptDirs)
	if err != nil {
		return "", nil, err
	}

	tmpl, err := LoadTemplate(fs, promptPath)
	if err != nil {
		return "", nil, err
	}

	argMap, err := processArgs(args)
	if err != nil {
		return "", nil, fmt.Errorf("error processing arguments: %w", err)
	}

	system := tmpl.System
	for key, value := range argMap {
		system = strings.ReplaceAll(system, fmt.Sprintf("{{%s}}", key), value)
	}

	if tmpl.Model != nil && strings.TrimSpace(*tmpl.Model) == "" {
		return "", nil, fmt.Errorf("empty model in prompt template %s", promptPath)
	}

	return system, tmpl.Model, nil
}

// processArgs processes the command line arguments and returns a map of key-value pairs
func processArgs(args []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, arg := range args {
		// Handle quoted values
		arg = strings.TrimSpace(arg)
		if strings.HasPrefix(arg, `"`) && strings.HasSuffix(arg, `"`) {
			arg = strings.Trim(arg, `"`)
		}

		parts := strings.SplitN(arg, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid argument format: %s. Expected format: key:value", arg)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			return nil, fmt.Errorf("empty key in argument: %s", arg)
		}

		// Remove escape characters from value
		value = strings.ReplaceAll(value, `\:`, ":")
		value = strings.ReplaceAll(value, `\"`, `"`)

		result[key] = value
	}
	return result, nil
}
