package cli

import (
	stderrors "errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/combviz/pkg/errors"
)

// programArgs accepts either one positional program or none when --file is
// set.
func programArgs(file *string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		switch {
		case *file != "" && len(args) > 0:
			return errors.New(errors.ErrCodeInvalidInput, "pass the program as an argument or with --file, not both")
		case *file == "" && len(args) != 1:
			return errors.New(errors.ErrCodeInvalidInput, "expected one base64 program argument")
		}
		return nil
	}
}

// readProgram returns the program text from the argument or the file. A file
// named "-" is read from stdin.
func readProgram(args []string, file string, stdin io.Reader) (string, error) {
	if file == "" {
		return args[0], nil
	}

	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(io.LimitReader(stdin, errors.MaxProgramLength+1))
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "program file not found: %s", file)
		}
		return "", errors.Wrap(errors.ErrCodeIO, err, "read program %s", file)
	}
	return string(data), nil
}
