package main

import (
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sagemaker"
	"github.com/ghodss/yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/philpot/sagemaker-go-sdk/pkg/algorithm"
	"github.com/philpot/sagemaker-go-sdk/pkg/check"
	"github.com/philpot/sagemaker-go-sdk/pkg/session"
)

// trainingDoc is the validate command's input document: a training configuration plus optional
// settings naming the specification to validate against.
type trainingDoc struct {
	SpecFile     string `json:"spec_file,omitempty"`
	AlgorithmARN string `json:"algorithm_arn,omitempty"`
	Region       string `json:"region,omitempty"`

	algorithm.TrainingConfig
}

// settingsKeys are the document keys that configure the tool itself rather than the training
// job. They obey the usual precedence: flag > environment > document > default.
var settingsKeys = []string{"spec_file", "algorithm_arn", "region"}

func registerString(v *viper.Viper, flags *pflag.FlagSet, name, value, usage string) {
	flags.String(name, value, usage)
	key := strings.ReplaceAll(name, "-", "_")
	_ = v.BindEnv(key, "ALGOCHECK_"+strings.ToUpper(key))
	_ = v.BindPFlag(key, flags.Lookup(name))
	v.SetDefault(key, value)
}

func newValidateCmd() *cobra.Command {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	cmd := &cobra.Command{
		Use:   "validate config_file",
		Short: "validate a training configuration against an algorithm specification",
		Long: `Validate checks a proposed training configuration against what the algorithm declares it
accepts, without submitting anything. The specification comes either from a local file
(--spec-file) or live from the platform (--algorithm-arn with --region). The exit code
reflects acceptance.`,
		Args: cobra.ExactArgs(1),
	}

	flags := cmd.Flags()
	registerString(v, flags, "spec-file", "", "path to a local algorithm specification (YAML or JSON)")
	registerString(v, flags, "algorithm-arn", "", "name or ARN of an algorithm to describe live")
	registerString(v, flags, "region", "", "AWS region for live validation")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		doc, err := readTrainingDoc(args[0], v)
		if err != nil {
			return err
		}
		spec, err := loadSpec(v)
		if err != nil {
			return err
		}
		doc.TrainingConfig.Resolve()
		if err := spec.ValidateConfig(doc.TrainingConfig); err != nil {
			violations := flatten(err)
			for _, violation := range violations {
				log.Error(violation.Error())
			}
			return errors.Errorf("training configuration rejected with %d violation(s)", len(violations))
		}
		log.Infof("training configuration accepted by algorithm %s", spec.Name)
		return nil
	}

	return cmd
}

func readTrainingDoc(path string, v *viper.Viper) (*trainingDoc, error) {
	bs, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "error reading training configuration file")
	}

	// Merge the document's settings keys into viper so flags and environment variables take
	// precedence over them. The training configuration itself stays out of viper, which
	// lowercases keys and would corrupt case-sensitive hyperparameter names.
	var configMap map[string]interface{}
	if err := yaml.Unmarshal(bs, &configMap); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal yaml configuration file")
	}
	settings := make(map[string]interface{})
	for _, key := range settingsKeys {
		if value, ok := configMap[key]; ok {
			settings[key] = value
		}
	}
	if err := v.MergeConfigMap(settings); err != nil {
		return nil, errors.Wrap(err, "cannot merge configuration into viper")
	}

	doc := &trainingDoc{}
	if err := yaml.Unmarshal(bs, doc, yaml.DisallowUnknownFields); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal training configuration")
	}
	return doc, nil
}

func loadSpec(v *viper.Viper) (*algorithm.Spec, error) {
	specFile := v.GetString("spec_file")
	algorithmARN := v.GetString("algorithm_arn")
	switch {
	case specFile != "" && algorithmARN != "":
		return nil, errors.New("spec_file and algorithm_arn are mutually exclusive")
	case specFile != "":
		return algorithm.ParseSpecFile(specFile)
	case algorithmARN != "":
		return describeSpec(v.GetString("region"), algorithmARN)
	default:
		return nil, errors.New("one of spec_file or algorithm_arn must be provided")
	}
}

func describeSpec(region, algorithmARN string) (*algorithm.Spec, error) {
	sess, err := session.New(session.Config{Region: region})
	if err != nil {
		return nil, err
	}
	out, err := sess.SageMaker().DescribeAlgorithm(&sagemaker.DescribeAlgorithmInput{
		AlgorithmName: aws.String(algorithmARN),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "cannot describe algorithm %s", algorithmARN)
	}
	spec, err := algorithm.FromDescribeOutput(out)
	if err != nil {
		return nil, err
	}
	if err := check.Validate(*spec); err != nil {
		return nil, errors.Wrapf(err, "algorithm %s published a malformed specification", algorithmARN)
	}
	return spec, nil
}

func flatten(err error) []error {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.Errors
	}
	return []error{err}
}
