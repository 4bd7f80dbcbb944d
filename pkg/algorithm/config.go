package algorithm

// TrainingConfig is a proposed training setup to be checked against a Spec. Hyperparameter
// values keep their original YAML or JSON types; validation canonicalizes them to the string
// form the platform expects.
type TrainingConfig struct {
	InstanceType  string    `json:"instance_type"`
	InstanceCount int       `json:"instance_count"`
	InputMode     InputMode `json:"input_mode,omitempty"`

	Hyperparameters map[string]interface{} `json:"hyperparameters,omitempty"`

	// Channels maps channel names to their S3 data locations.
	Channels map[string]string `json:"channels,omitempty"`
}

// Resolve fills dynamic defaults. The input mode defaults to File, matching the platform's own
// default.
func (c *TrainingConfig) Resolve() {
	if c.InputMode == "" {
		c.InputMode = FileInputMode
	}
}
