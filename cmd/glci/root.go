package glci

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/opnlabs/glci/pkg/loader"
	"github.com/opnlabs/glci/pkg/models"
	"github.com/opnlabs/glci/pkg/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	noResolveRefs bool
	dump          bool
)

var rootCmd = &cobra.Command{
	Use:   "glci [file...]",
	Short: "Glci validates GitLab CI configuration files",
	Long: `Glci parses GitLab CI configuration files into a typed model and
reports every schema violation it finds. Files are validated concurrently and
!reference tags are resolved unless --no-resolve-refs is set.`,
	Args: cobra.MinimumNArgs(1),

	Run: func(cmd *cobra.Command, args []string) {
		if err := run(args); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.Flags().BoolVar(&noResolveRefs, "no-resolve-refs", false, "Keep !reference tags as placeholders instead of resolving them.")
	rootCmd.Flags().BoolVarP(&dump, "dump", "d", false, "Print the normalized configuration after validation.")

	rootCmd.AddCommand(versionCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(paths []string) error {
	var eg errgroup.Group
	for _, path := range paths {
		path := path
		eg.Go(func() error {
			stdout := utils.NewColorLogger(path, os.Stdout, true)
			stderr := utils.NewColorLogger(path, os.Stderr, false)
			return validateFile(path, stdout, stderr)
		})
	}
	if err := eg.Wait(); err != nil {
		return errors.New("validation failed")
	}
	return nil
}

func validateFile(path string, stdout, stderr io.Writer) error {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return err
	}

	tree, err := loader.Load(contents, !noResolveRefs)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return err
	}

	pipeline, err := models.ParsePipeline(tree)
	if err != nil {
		var serr *models.SchemaError
		if errors.As(err, &serr) {
			for _, fe := range serr.Errors {
				fmt.Fprintf(stderr, "%s\n", fe.Error())
			}
		} else {
			fmt.Fprintf(stderr, "%v\n", err)
		}
		return err
	}

	if dump {
		out, err := loader.Dump(pipeline.Serialize())
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return err
		}
		stdout.Write(out)
		return nil
	}

	fmt.Fprintf(stdout, "valid: %d jobs, %d stages\n",
		len(pipeline.JobNames()), len(pipeline.StageNames()))
	return nil
}
