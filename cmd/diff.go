package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zinc-sig/ghost-allure/cmd/config"
	"github.com/zinc-sig/ghost-allure/cmd/helpers"
	"github.com/zinc-sig/ghost-allure/pkg/allure"
	"github.com/zinc-sig/ghost-allure/pkg/attachment"
)

var (
	diffIO          helpers.IOFlags
	diffDryRun      bool
	diffContext     int
	diffIgnoreSpace bool
	diffTest        config.TestFlags
	diffMeta        config.MetaFlags
	diffUpload      config.UploadConfig
	diffWebhook     config.WebhookConfig
)

// newDiffCmd builds the diff command with fresh flag state.
func newDiffCmd() *cobra.Command {
	diffIO = helpers.IOFlags{}
	diffTest = config.TestFlags{}
	diffMeta = config.MetaFlags{}
	diffUpload = config.UploadConfig{}
	diffWebhook = config.WebhookConfig{}

	diffCmd := &cobra.Command{
		Use:   "diff -i <actual> -e <expected> [-o <diff-output>]",
		Short: "Compare a file against the expected one and record it as an Allure test",
		Long: `Compare a file against the expected one and record it as an Allure test.

The test reads both files in the steps "read expected" and "read actual" and
compares them in the step "compare". When they differ the test fails with
"output differs from expected" and the unified diff, the expected file and the
actual file are attached to the compare step. The diff is also written to
--output when set.

The result document is printed to stdout as JSON.`,
		Example: `  ghost diff -i actual.txt -e expected.txt
  ghost diff -i out.txt -e expected.txt -o out.diff --ignore-trailing-space
  ghost diff -i out.json -e golden.json --suite grading --label owner=alice`,
		RunE: diffCommand,
	}

	diffCmd.Flags().StringVarP(&diffIO.Input, "input", "i", "", "File to check (required)")
	diffCmd.Flags().StringVarP(&diffIO.Expected, "expected", "e", "", "Expected file to compare against (required)")
	diffCmd.Flags().StringVarP(&diffIO.Output, "output", "o", "", "File receiving the unified diff")
	diffCmd.Flags().IntVar(&diffContext, "context", 3, "Lines of context around each change")
	diffCmd.Flags().BoolVar(&diffIgnoreSpace, "ignore-trailing-space", false, "Ignore trailing whitespace and trailing blank lines")
	diffCmd.Flags().BoolVar(&diffDryRun, "dry-run", false, "Record the comparison without writing results")

	helpers.SetupTestFlags(diffCmd, &diffTest)
	helpers.SetupMetaFlags(diffCmd, &diffMeta)
	helpers.SetupUploadFlags(diffCmd, &diffUpload)
	helpers.SetupWebhookFlags(diffCmd, &diffWebhook)
	return diffCmd
}

func diffCommand(cmd *cobra.Command, args []string) error {
	if err := helpers.ValidateDiffFlags(diffIO); err != nil {
		return err
	}
	if diffContext < 0 {
		return fmt.Errorf("context must not be negative")
	}

	md, err := helpers.CollectMetadata(&diffMeta)
	if err != nil {
		return err
	}

	sess, err := newSession(diffDryRun, &diffUpload, &diffWebhook)
	if err != nil {
		return err
	}

	name := diffTest.Name
	if name == "" {
		name = fmt.Sprintf("diff %s %s", filepath.Base(diffIO.Input), filepath.Base(diffIO.Expected))
	}

	if rootFlags.Verbose || diffDryRun {
		helpers.PrintMetadata(os.Stderr, md, diffDryRun)
	}

	rec := sess.rec
	rec.StartTest(name, helpers.TestOptions(sess.suite(diffTest.Suite), md)...)

	var (
		expected, actual []byte
		lost             helpers.SinkErrors
	)
	outcome := rec.Step("read expected", func() error {
		expected, err = readComparedFile("expected", diffIO.Expected)
		return err
	}, allure.Param("path", diffIO.Expected))
	if outcome == nil {
		outcome = rec.Step("read actual", func() error {
			actual, err = readComparedFile("actual", diffIO.Input)
			return err
		}, allure.Param("path", diffIO.Input))
	}
	if outcome == nil {
		outcome = rec.Step("compare", func() error {
			return compareFiles(rec, &lost, expected, actual)
		})
	}

	if err := lost.Check(helpers.AttachFiles(rec, diffTest.Attach)); err != nil {
		if outcome == nil {
			outcome = allure.Broken(err)
		} else {
			sess.logger.WithError(err).Warn("failed to attach files")
		}
	}

	result, err := rec.EndTest(outcome)
	if err != nil {
		return err
	}
	if err := lost.Err(); err != nil {
		return err
	}

	if rootFlags.Verbose || diffDryRun {
		helpers.PrintSummary(os.Stderr, result)
	}

	return helpers.OutputJSON(os.Stdout, result)
}

func readComparedFile(role, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, allure.Broken(fmt.Errorf("failed to read %s file: %w", role, err))
	}
	return data, nil
}

// compareFiles records the differences between expected and actual on the
// current step and fails it when there are any. Attachments the sink rejects
// are noted in lost.
func compareFiles(rec *allure.Context, lost *helpers.SinkErrors, expected, actual []byte) error {
	diff, err := helpers.UnifiedDiff(string(expected), string(actual), helpers.DiffOptions{
		Context:        diffContext,
		IgnoreTrailing: diffIgnoreSpace,
		ExpectedLabel:  diffIO.Expected,
		ActualLabel:    diffIO.Input,
	})
	if err != nil {
		return allure.Broken(err)
	}

	if diffIO.Output != "" && !diffDryRun {
		if err := os.MkdirAll(filepath.Dir(diffIO.Output), 0755); err != nil {
			return allure.Broken(fmt.Errorf("failed to create diff output directory: %w", err))
		}
		if err := os.WriteFile(diffIO.Output, []byte(diff), 0644); err != nil {
			return allure.Broken(fmt.Errorf("failed to write diff output: %w", err))
		}
	}

	if diff == "" {
		return nil
	}

	expectedKind, _ := attachment.KindFromPath(diffIO.Expected)
	actualKind, _ := attachment.KindFromPath(diffIO.Input)
	for _, a := range []struct {
		name    string
		payload attachment.Payload
	}{
		{"diff", attachment.Text(diff)},
		{"expected", attachment.Typed(expectedKind, expected)},
		{"actual", attachment.Typed(actualKind, actual)},
	} {
		if err := rec.AddAttachment(a.name, a.payload); err != nil {
			return allure.Broken(lost.Check(err))
		}
	}

	return &helpers.MismatchError{Diff: diff}
}
