/*
Package cli holds the helpers shared by the service-manager commands.

Signal handling for graceful shutdown:

	ctx, cancel := cli.SetupSignalHandler(context.Background())
	defer cancel()
	return srv.Start(ctx)

Command results are printed as text or JSON:

	format, err := cli.ParseOutputFormat(flagValue)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, result)

Configuration failures map to exit status 2 through ExitCode, and
ConfigErrors flattens a validation failure into one error per field.
*/
package cli
