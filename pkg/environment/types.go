package environment

// Environment is the root object that describes one isolated analysis
// environment. It's populated from a packhero.yaml file when one exists,
// otherwise from the built-in defaults.
type Environment struct {
	APIVersion string   `yaml:"apiVersion" validate:"required"`
	Kind       string   `yaml:"kind" validate:"required,eq=Environment"`
	Metadata   Metadata `yaml:"metadata" validate:"required"`
	Spec       Spec     `yaml:"spec" validate:"required"`
}

// Metadata contains environment-level metadata.
type Metadata struct {
	Name        string            `yaml:"name" validate:"required"`
	Description string            `yaml:"description"`
	Labels      map[string]string `yaml:"labels,omitempty"`
}

// Spec contains the detailed specification of the environment.
type Spec struct {
	Instance  Instance      `yaml:"instance" validate:"required"`
	Image     Image         `yaml:"image" validate:"required"`
	Workspace Workspace     `yaml:"workspace" validate:"required"`
	Scripts   []ScriptMount `yaml:"scripts" validate:"required,min=1,dive"`
}

// Instance configures the named container the launcher starts.
type Instance struct {
	Name       string `yaml:"name" validate:"required"`
	WorkingDir string `yaml:"workingDir" validate:"required,startswith=/"`
	AutoRemove bool   `yaml:"autoRemove"`
}

// Image configures the environment image and how it is built. A relative
// ContextDir resolves against the current working directory at launch time.
type Image struct {
	Name       string `yaml:"name" validate:"required"`
	ContextDir string `yaml:"contextDir" validate:"required"`
	Dockerfile string `yaml:"dockerfile" validate:"required"`
	NoCache    bool   `yaml:"noCache"`
}

// Workspace configures the read-write data directory shared with the host.
// An empty HostDir means the directory is derived from the launcher's own
// location at startup (sibling "workspace" directory).
type Workspace struct {
	HostDir string `yaml:"hostDir"`
	Target  string `yaml:"target" validate:"required,startswith=/"`
}

// ScriptMount maps one host script into the environment read-only. A relative
// Source resolves against the launcher's own directory.
type ScriptMount struct {
	Source string `yaml:"source" validate:"required"`
	Target string `yaml:"target" validate:"required,startswith=/"`
}
