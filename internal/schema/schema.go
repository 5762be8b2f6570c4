// Package schema declares the HCL block structure of a project.build file.
// The interpreter decodes into these types with gohcl and translates them
// into the build graph.
package schema

// File is the top-level structure of a build description.
type File struct {
	Projects        []*Project `hcl:"project,block"`
	StaticLibraries []*Target  `hcl:"static_library,block"`
	SharedLibraries []*Target  `hcl:"shared_library,block"`
	Executables     []*Target  `hcl:"executable,block"`
	Tests           []*Test    `hcl:"test,block"`
	Headers         []*Headers `hcl:"headers,block"`
	Man             []*Man     `hcl:"man,block"`
	Data            []*Data    `hcl:"data,block"`
}

// Project is the mandatory, unique `project "<name>"` block.
type Project struct {
	Name      string   `hcl:"name,label"`
	Version   string   `hcl:"version,optional"`
	Languages []string `hcl:"languages,optional"`
}

// Target is shared by the executable, static_library and shared_library
// blocks.
type Target struct {
	Name        string   `hcl:"name,label"`
	Sources     []string `hcl:"sources"`
	IncludeDirs []string `hcl:"include_dirs,optional"`
	LinkWith    []string `hcl:"link_with,optional"`
	CArgs       []string `hcl:"c_args,optional"`
	LinkArgs    []string `hcl:"link_args,optional"`
	Install     bool     `hcl:"install,optional"`
}

// Test is a `test "<name>"` block running an executable target.
type Test struct {
	Name   string   `hcl:"name,label"`
	Target string   `hcl:"target"`
	Args   []string `hcl:"args,optional"`
}

// Headers lists header files installed under includedir/subdir.
type Headers struct {
	Files  []string `hcl:"files"`
	Subdir string   `hcl:"subdir,optional"`
}

// Man lists man pages; the section comes from each file's extension.
type Man struct {
	Pages []string `hcl:"pages"`
}

// Data lists data files installed under datadir/subdir.
type Data struct {
	Files  []string `hcl:"files"`
	Subdir string   `hcl:"subdir,optional"`
}
