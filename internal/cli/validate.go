package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/adcopy-backend/internal/compliance"
)

var ErrNonCompliant = errors.New("copy is not compliant")

// NewValidateCmd creates the 'validate' command that checks copy against a platform's rules.
func NewValidateCmd() *cobra.Command {
	var (
		platform string
		adType   string
		field    string
		specPath string
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "validate [copy text]",
		Short: "Validate ad copy against a platform's rules",
		Long:  `Runs the compliance validator offline and prints the report as JSON.`,
		Example: `  adcopy validate --platform kakao --field title "지금 바로 확인하세요"
  adcopy validate --platform naver --ad-type shopping --field description --strict "..."`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadValidateTable(specPath)
			if err != nil {
				return err
			}
			if strings.TrimSpace(field) == "" {
				return fmt.Errorf("--field is required")
			}
			v := compliance.NewValidator(table)
			text := strings.Join(args, " ")

			var rep compliance.Report
			if strings.TrimSpace(adType) == "" {
				rep = v.Validate(text, platform, compliance.ParseFieldType(field))
			} else {
				rep = v.ValidateAdType(text, platform, adType, compliance.ParseFieldType(field))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			if err := enc.Encode(rep); err != nil {
				return err
			}
			if strict && !rep.Compliant {
				return ErrNonCompliant
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", "Platform key, e.g. kakao, naver, google, meta")
	cmd.Flags().StringVarP(&adType, "ad-type", "a", "", "Ad type; defaults to the platform's default")
	cmd.Flags().StringVarP(&field, "field", "f", "", "Field type: title or description")
	cmd.Flags().StringVar(&specPath, "spec", "", "Path to a platform spec YAML overriding the built-in table")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when the copy has violations")
	_ = cmd.MarkFlagRequired("platform")

	return cmd
}

func loadValidateTable(path string) (*compliance.Table, error) {
	if strings.TrimSpace(path) == "" {
		return compliance.LoadDefaultTable()
	}
	return compliance.LoadTableFile(path)
}
