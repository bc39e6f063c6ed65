// Package config loads and validates the environment definition. Every
// setting has a documented default so the launcher runs with zero arguments;
// a packhero.yaml can override any subset of them.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"packhero/pkg/environment"
)

const (
	// DefaultInstanceName is the fixed name under which the isolated
	// instance is created and removed.
	DefaultInstanceName = "packhero-isolated"

	// DefaultImageName is the tag the environment image is built under.
	DefaultImageName = "packhero-env"

	// DefaultWorkingDir is the working directory inside the environment.
	DefaultWorkingDir = "/workspace"

	// DefaultWorkspaceTarget is where the host workspace directory is
	// mounted read-write inside the environment.
	DefaultWorkspaceTarget = "/workspace/data"

	// DefaultDockerfile is the build specification file read from the
	// build context directory.
	DefaultDockerfile = "Dockerfile"

	// DefaultFileName is the environment definition looked up in the
	// current directory when no --file flag is given.
	DefaultFileName = "packhero.yaml"

	// DefaultAPIVersion and KindEnvironment identify the document schema.
	DefaultAPIVersion = "packhero.dev/v1"
	KindEnvironment   = "Environment"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// defaultScripts returns the host scripts mounted read-only into the
// environment. Relative sources resolve against the launcher's directory.
func defaultScripts() []environment.ScriptMount {
	return []environment.ScriptMount{
		{Source: "download_malware.py", Target: "/workspace/download_malware.py"},
		{Source: "organize_samples.py", Target: "/workspace/organize_samples.py"},
	}
}

// Default returns the complete built-in environment definition.
func Default() *environment.Environment {
	return &environment.Environment{
		APIVersion: DefaultAPIVersion,
		Kind:       KindEnvironment,
		Metadata:   environment.Metadata{Name: "packhero"},
		Spec: environment.Spec{
			Instance: environment.Instance{
				Name:       DefaultInstanceName,
				WorkingDir: DefaultWorkingDir,
				AutoRemove: true,
			},
			Image: environment.Image{
				Name:       DefaultImageName,
				ContextDir: ".",
				Dockerfile: DefaultDockerfile,
			},
			Workspace: environment.Workspace{
				Target: DefaultWorkspaceTarget,
			},
			Scripts: defaultScripts(),
		},
	}
}

// applyDefaults registers the built-in defaults on v so a partial document
// keeps them for every key it does not set.
func applyDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("apiVersion", def.APIVersion)
	v.SetDefault("kind", def.Kind)
	v.SetDefault("metadata.name", def.Metadata.Name)
	v.SetDefault("spec.instance.name", def.Spec.Instance.Name)
	v.SetDefault("spec.instance.workingDir", def.Spec.Instance.WorkingDir)
	v.SetDefault("spec.instance.autoRemove", def.Spec.Instance.AutoRemove)
	v.SetDefault("spec.image.name", def.Spec.Image.Name)
	v.SetDefault("spec.image.contextDir", def.Spec.Image.ContextDir)
	v.SetDefault("spec.image.dockerfile", def.Spec.Image.Dockerfile)
	v.SetDefault("spec.image.noCache", def.Spec.Image.NoCache)
	v.SetDefault("spec.workspace.hostDir", def.Spec.Workspace.HostDir)
	v.SetDefault("spec.workspace.target", def.Spec.Workspace.Target)

	scripts := make([]map[string]interface{}, len(def.Spec.Scripts))
	for i, s := range def.Spec.Scripts {
		scripts[i] = map[string]interface{}{"source": s.Source, "target": s.Target}
	}
	v.SetDefault("spec.scripts", scripts)
}

// Load reads and validates an environment YAML file, completing unset fields
// from the built-in defaults.
func Load(filePath string) (*environment.Environment, error) {
	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("environment file not found: %s", filePath)
	}

	// Configure Viper
	v := viper.New()
	v.SetConfigFile(filePath)
	v.SetConfigType("yaml")
	applyDefaults(v)

	// Read the file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("environment file not found: %s", filePath)
		}
		return nil, fmt.Errorf("failed to read environment file: %w", err)
	}

	// Unmarshal into Environment struct
	var env environment.Environment
	if err := v.Unmarshal(&env); err != nil {
		return nil, fmt.Errorf("failed to parse environment file - malformed YAML: %w", err)
	}

	// Validate the structure
	if err := validate.Struct(&env); err != nil {
		return nil, formatValidationError(err)
	}

	return &env, nil
}

// Discover returns the environment definition for dir: the packhero.yaml
// inside it when one exists, otherwise the built-in defaults. The returned
// path is empty when the defaults were used.
func Discover(dir string) (*environment.Environment, string, error) {
	filePath := filepath.Join(dir, DefaultFileName)
	if _, err := os.Stat(filePath); err != nil {
		return Default(), "", nil
	}

	env, err := Load(filePath)
	if err != nil {
		return nil, filePath, err
	}
	return env, filePath, nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, formatFieldError(e))
		}

		if len(errorMessages) == 1 {
			return fmt.Errorf("validation error: %s", errorMessages[0])
		}

		result := "validation errors:\n"
		for _, msg := range errorMessages {
			result += fmt.Sprintf("  - %s\n", msg)
		}
		return fmt.Errorf("%s", result)
	}
	return fmt.Errorf("validation failed: %w", err)
}

// formatFieldError formats a single validation error into a user-friendly message.
func formatFieldError(e validator.FieldError) string {
	field := e.Field()
	tag := e.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("field '%s' is required but missing", field)
	case "eq":
		return fmt.Sprintf("field '%s' must be '%s'", field, e.Param())
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", field, e.Param())
	case "min":
		return fmt.Sprintf("field '%s' needs at least %s entry", field, e.Param())
	case "startswith":
		return fmt.Sprintf("field '%s' must start with '%s'", field, e.Param())
	default:
		return fmt.Sprintf("field '%s' failed validation (%s)", field, tag)
	}
}
