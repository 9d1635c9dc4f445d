package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zinc-sig/ghost-allure/cmd/config"
	"github.com/zinc-sig/ghost-allure/cmd/helpers"
	"github.com/zinc-sig/ghost-allure/internal/runner"
	"github.com/zinc-sig/ghost-allure/pkg/allure"
)

var (
	runIO      helpers.IOFlags
	runCommon  config.CommonFlags
	runTest    config.TestFlags
	runMeta    config.MetaFlags
	runUpload  config.UploadConfig
	runWebhook config.WebhookConfig
)

// newRunCmd builds the run command with fresh flag state.
func newRunCmd() *cobra.Command {
	runIO = helpers.IOFlags{}
	runCommon = config.CommonFlags{}
	runTest = config.TestFlags{}
	runMeta = config.MetaFlags{}
	runUpload = config.UploadConfig{}
	runWebhook = config.WebhookConfig{}

	runCmd := &cobra.Command{
		Use:   "run [flags] -- <command> [args...]",
		Short: "Run a command and record it as an Allure test",
		Long: `Run a command and record it as an Allure test.

The command runs inside an "execute" step. Its stdout and stderr are captured
to the --output and --stderr files (temporary files when omitted) and attached
to the step. The test passes on exit code 0, fails on any other exit code with
the tail of stderr as trace, and is broken when the command times out or
cannot be started.

The result document is printed to stdout as JSON.`,
		Example: `  ghost run --name "unit tests" --suite backend -- go test ./...
  ghost run -i input.txt -o out.txt -t 30s --label owner=alice -- ./solution
  ghost run --attach coverage=cover.html --upload-provider minio \
    --upload-config-kv bucket=results -- make check`,
		RunE: runCommand,
	}

	runCmd.Flags().StringVarP(&runIO.Input, "input", "i", "", "File fed to the command's stdin")
	runCmd.Flags().StringVarP(&runIO.Output, "output", "o", "", "File capturing stdout (temporary file when omitted)")
	runCmd.Flags().StringVarP(&runIO.Stderr, "stderr", "e", "", "File capturing stderr (temporary file when omitted)")

	helpers.SetupTestFlags(runCmd, &runTest)
	helpers.SetupCommonFlags(runCmd, &runCommon)
	helpers.SetupMetaFlags(runCmd, &runMeta)
	helpers.SetupUploadFlags(runCmd, &runUpload)
	helpers.SetupWebhookFlags(runCmd, &runWebhook)
	return runCmd
}

func runCommand(cmd *cobra.Command, args []string) error {
	if err := helpers.ValidateCommandSeparator(cmd, args); err != nil {
		return err
	}

	timeout, err := helpers.ParseTimeout(runCommon.TimeoutStr)
	if err != nil {
		return err
	}
	runCommon.Timeout = timeout

	md, err := helpers.CollectMetadata(&runMeta)
	if err != nil {
		return err
	}

	sess, err := newSession(runCommon.DryRun, &runUpload, &runWebhook)
	if err != nil {
		return err
	}

	outputFile, stderrFile := runIO.Output, runIO.Stderr
	if outputFile == "" || stderrFile == "" {
		tempOut, tempErr, cleanup, err := helpers.CreateTempFiles("run")
		if err != nil {
			return err
		}
		defer cleanup()
		if outputFile == "" {
			outputFile = tempOut
		}
		if stderrFile == "" {
			stderrFile = tempErr
		}
	}

	runConfig := &runner.Config{
		Command:    args[0],
		Args:       args[1:],
		InputFile:  runIO.Input,
		OutputFile: outputFile,
		StderrFile: stderrFile,
		Timeout:    timeout,
		Verbose:    rootFlags.Verbose,
		DryRun:     runCommon.DryRun,
	}

	name := runTest.Name
	if name == "" {
		name = runConfig.FullCommand()
	}

	if rootFlags.Verbose || runCommon.DryRun {
		helpers.PrintMetadata(os.Stderr, md, runCommon.DryRun)
		runner.PrintPreExecution(os.Stderr, name, runConfig)
	}

	rec := sess.rec
	rec.StartTest(name, helpers.TestOptions(sess.suite(runTest.Suite), md)...)

	var (
		execResult *runner.Result
		lost       helpers.SinkErrors
	)
	outcome := rec.Step("execute", func() error {
		var err error
		execResult, err = runner.Execute(runConfig)
		if err != nil {
			return allure.Broken(err)
		}
		stderr, err := helpers.AttachCaptures(rec, outputFile, stderrFile)
		if err != nil {
			return allure.Broken(lost.Check(err))
		}
		return helpers.CommandOutcome(execResult, timeout, stderr)
	}, helpers.ExecuteParams(runConfig)...)

	if err := lost.Check(helpers.AttachFiles(rec, runTest.Attach)); err != nil {
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

	if rootFlags.Verbose || runCommon.DryRun {
		if execResult != nil {
			runner.PrintPostExecution(os.Stderr, execResult, runCommon.DryRun)
		}
		helpers.PrintSummary(os.Stderr, result)
	}

	return helpers.OutputJSON(os.Stdout, result)
}
