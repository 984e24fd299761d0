package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nextword/nextword/pkg/ngram"
)

// readSentences loads one sentence per line, skipping blanks.
func readSentences(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open sentences file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	var sentences []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			sentences = append(sentences, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read sentences file: %w", err)
	}
	return sentences, nil
}

func newPredictCmd() *cobra.Command {
	var (
		sentencesPath string
		order         int
	)

	cmd := &cobra.Command{
		Use:   "predict [context words...]",
		Short: "Print the next-word distribution for a context",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sentences, err := readSentences(sentencesPath)
			if err != nil {
				return err
			}
			if len(args) > order {
				args = args[len(args)-order:]
			}
			table := ngram.BuildModel(sentences, order)
			predictions := ngram.Predictions(table.Probabilities(args))
			if len(predictions) == 0 {
				fmt.Println("no predictions for this context")
				return nil
			}
			for _, p := range predictions {
				fmt.Printf("%-20s %.4f\n", p.Word, p.Probability)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&sentencesPath, "sentences", "s", "", "file with one training sentence per line (required)")
	cmd.Flags().IntVarP(&order, "order", "n", 2, "n-gram order (context length)")
	_ = cmd.MarkFlagRequired("sentences")

	return cmd
}

func newCompleteCmd() *cobra.Command {
	var (
		sentencesPath string
		order         int
		maxLength     int
	)

	cmd := &cobra.Command{
		Use:   "complete [seed words...]",
		Short: "Greedily complete a sentence from seed words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sentences, err := readSentences(sentencesPath)
			if err != nil {
				return err
			}
			table := ngram.BuildModel(sentences, order)
			fmt.Println(ngram.Complete(args, table, maxLength))
			return nil
		},
	}
	cmd.Flags().StringVarP(&sentencesPath, "sentences", "s", "", "file with one training sentence per line (required)")
	cmd.Flags().IntVarP(&order, "order", "n", 2, "n-gram order (context length)")
	cmd.Flags().IntVarP(&maxLength, "max-length", "m", ngram.DefaultMaxCompletionLength, "maximum words to append")
	_ = cmd.MarkFlagRequired("sentences")

	return cmd
}

func newOptionsCmd() *cobra.Command {
	var (
		sentencesPath string
		nWords        int
	)

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List every highlighted context window in the training sentences",
		RunE: func(cmd *cobra.Command, args []string) error {
			sentences, err := readSentences(sentencesPath)
			if err != nil {
				return err
			}
			for _, opt := range ngram.EnumerateOptions(sentences, nWords) {
				fmt.Printf("%s [%s]\n", strings.Join(opt.Prefix, " "), strings.Join(opt.Highlighted, " "))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&sentencesPath, "sentences", "s", "", "file with one training sentence per line (required)")
	cmd.Flags().IntVarP(&nWords, "span", "w", 1, "highlighted span length")
	_ = cmd.MarkFlagRequired("sentences")

	return cmd
}

func main() {
	root := &cobra.Command{
		Use:   "ngramcli",
		Short: "Explore n-gram models from the command line",
	}
	root.AddCommand(newPredictCmd(), newCompleteCmd(), newOptionsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
