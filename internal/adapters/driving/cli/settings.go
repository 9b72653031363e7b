package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/digest/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the LLM provider, summary defaults, cleaning defaults,
translation and storage.

Settings live in ~/.digest/config.toml. API keys may also come from the
DIGEST_LLM_API_KEY and DIGEST_TRANSLATE_API_KEY environment variables.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set one setting",
	Long: `Set one setting by its dotted key.

Examples:
  digest settings set summary.ratio 0.25
  digest settings set summary.algorithm topic
  digest settings set cleaning.remove_stopwords true
  digest settings set translation.libre_url http://localhost:5000
  digest settings set storage.backend file`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting, or every setting by key",
	Long: `Print the value of one setting by its dotted key. Without a key, print
every setting as key = value, marking the ones still at their default.
API keys are masked unless --reveal is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsGet,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Interactively configure the LLM used for abstractive summaries and LLM translation.`,
	RunE:  runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsGetCmd.Flags().Bool("reveal", false, "print API keys in full")
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

type field struct {
	label, value string
}

type section struct {
	name   string
	fields []field
}

func settingsSections(a *domain.AppSettings) []section {
	llm := []field{{"Provider", "(not set)"}}
	if a.LLM.Provider != "" {
		llm = []field{{"Provider", a.LLM.Provider.Description()}, {"Model", a.LLM.Model}}
	}
	if a.LLM.Provider.IsLocal() {
		llm = append(llm, field{"Base URL", a.LLM.BaseURL})
	}
	if a.LLM.Provider.RequiresAPIKey() {
		llm = append(llm, field{"API Key", displayKey(a.LLM.APIKey)})
	}
	status := "configured"
	if !a.LLM.IsConfigured() {
		status = "not configured (extractive summaries only)"
	}
	llm = append(llm, field{"Status", status})

	s, c, tr := a.Summary, a.Cleaning, a.Translation
	translation := []field{
		{"Provider", tr.Provider.String()},
		{"LibreTranslate URL", tr.LibreURL},
	}
	if tr.APIKey != "" {
		translation = append(translation, field{"API Key", maskAPIKey(tr.APIKey)})
	}
	translation = append(translation, field{"Rate limit", fmt.Sprintf("%.1f req/s", tr.RequestsPerSecond)})

	storage := []field{{"Backend", a.Storage.Backend.String()}}
	if a.Storage.DataDir != "" {
		storage = append(storage, field{"Data dir", a.Storage.DataDir})
	}

	return []section{
		{"LLM", llm},
		{"Summary", []field{
			{"Algorithm", s.Algorithm.Description()},
			{"Ratio", fmt.Sprintf("%.2f", s.Ratio)},
			{"Length", fmt.Sprintf("%d-%d words per chunk", s.MinLength, s.MaxLength)},
			{"Chunking", fmt.Sprintf("%d words, min %d chars", s.ChunkWords, s.MinChunkChars)},
			{"Workers", strconv.Itoa(s.Workers)},
			{"Cache", fmt.Sprintf("%d entries, TTL %s", s.CacheSize, s.CacheTTL)},
			{"Timeout", s.Timeout.String()},
		}},
		{"Cleaning", []field{
			{"Remove stopwords", strconv.FormatBool(c.RemoveStopwords)},
			{"Normalize whitespace", strconv.FormatBool(c.NormalizeWhitespace)},
			{"Remove special chars", strconv.FormatBool(c.RemoveSpecialChars)},
			{"Min sentence length", strconv.Itoa(c.MinSentenceLength)},
		}},
		{"Translation", translation},
		{"Storage", storage},
		{"Server", []field{
			{"Address", a.Server.Addr},
			{"Request timeout", a.Server.RequestTimeout.String()},
		}},
	}
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	for _, sec := range settingsSections(settings) {
		cmd.Printf("\n[%s]\n", sec.name)
		for _, f := range sec.fields {
			cmd.Printf("  %s: %s\n", f.label, f.value)
		}
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'digest settings set' or 'digest settings llm' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	reveal, err := cmd.Flags().GetBool("reveal")
	if err != nil {
		return err
	}

	values, err := settingsService.Values()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	format := func(v domain.SettingValue) string {
		if v.Secret && !reveal {
			return displayKey(v.Value)
		}
		return v.Value
	}

	if len(args) == 1 {
		for _, v := range values {
			if v.Key == args[0] {
				cmd.Println(format(v))
				return nil
			}
		}
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, args[0])
	}

	for _, v := range values {
		marker := " "
		if !v.Stored {
			marker = "*"
		}
		cmd.Printf("%s %s = %s\n", marker, v.Key, format(v))
	}
	cmd.Println("\n* built-in default")
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if strings.HasSuffix(key, "api_key") {
		value = maskAPIKey(value)
	}
	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(cmd.Context()); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when stdin is a terminal.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

func displayKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
