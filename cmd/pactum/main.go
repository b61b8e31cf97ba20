package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/windrift-labs/pactum/pkg/buildmeta"
	"github.com/windrift-labs/pactum/pkg/installer"
	"github.com/windrift-labs/pactum/pkg/netutil"
	"github.com/windrift-labs/pactum/pkg/pypi"
	"github.com/windrift-labs/pactum/pkg/registry"
	"github.com/windrift-labs/pactum/pkg/solver"
)

var rootCmd = &cobra.Command{
	Use:   "pactum",
	Short: "Pactum - a Python package manager driven by a Pubgrub solver",
	Long: `Pactum is a fast, reliable Python package manager that uses the Pubgrub
dependency resolution algorithm.

Features:
- Fast dependency resolution with Pubgrub
- PyPI integration
- Virtual environment management
- Lockfile support
- buildmeta.yaml configuration
- PEP 517/518/621 compliance`,
}

var initCmd = &cobra.Command{
	Use:   "init [project-name]",
	Short: "Initialize a new Python project",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectName := "my-python-project"
		projectDir := "."
		if len(args) > 0 {
			projectName = args[0]
			projectDir = projectName
		}
		buildMeta := buildmeta.NewBuildMeta(projectName, "0.1.0")
		buildMeta.Description = "A Python project created with Pactum"
		buildMeta.Author = "Your Name"
		buildMeta.Email = "your.email@example.com"
		buildMeta.License = "MIT"
		if err := buildmeta.WriteToDirectory(projectDir, buildMeta); err != nil {
			fmt.Fprintf(os.Stderr, "[pactum] Error: Could not create buildmeta.yaml: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Initialized Python project %q\n", projectName)
		fmt.Println("Created buildmeta.yaml")
		fmt.Println("\nNext steps:")
		fmt.Println("  pactum add <package>     # Add a dependency")
		fmt.Println("  pactum install           # Resolve and lock dependencies")
		fmt.Println("  pactum venv create       # Create virtual environment")
		if pyprojectFlag {
			pyproject := fmt.Sprintf(`[build-system]
requires = ["setuptools>=61.0", "wheel"]
build-backend = "setuptools.build_meta"

[project]
name = "%s"
version = "0.1.0"
description = "A Python project created with Pactum"
requires-python = ">=3.8"
`, projectName)
			if err := os.WriteFile(filepath.Join(projectDir, "pyproject.toml"), []byte(pyproject), 0644); err != nil {
				fmt.Fprintf(os.Stderr, "[pactum] Error: Could not create pyproject.toml: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Created pyproject.toml")
		}
	},
}

var addCmd = &cobra.Command{
	Use:   "add [package] [constraint]",
	Short: "Add a dependency to the project",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		packageName := args[0]
		constraint := ""
		if len(args) > 1 {
			constraint = args[1]
		}
		buildMeta, err := buildmeta.ParseFromDirectory(".")
		if err != nil {
			fmt.Fprintf(os.Stderr, "[pactum] Error: Could not load buildmeta.yaml: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run 'pactum init' to create a new project.")
			os.Exit(1)
		}
		buildMeta.AddDependency(packageName, constraint)
		if err := buildmeta.WriteToDirectory(".", buildMeta); err != nil {
			fmt.Fprintf(os.Stderr, "[pactum] Error: Could not save buildmeta.yaml: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added %s%s to dependencies\n", packageName, constraint)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove [package]",
	Short: "Remove a dependency from the project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		packageName := args[0]
		buildMeta, err := buildmeta.ParseFromDirectory(".")
		if err != nil {
			fmt.Fprintf(os.Stderr, "[pactum] Error: Could not load buildmeta.yaml: %v\n", err)
			os.Exit(1)
		}
		buildMeta.RemoveDependency(packageName)
		if err := buildmeta.WriteToDirectory(".", buildMeta); err != nil {
			fmt.Fprintf(os.Stderr, "[pactum] Error: Could not save buildmeta.yaml: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed %s from dependencies\n", packageName)
	},
}

// resolve runs the solver against the project's dependencies, pinning the
// bindings of any existing lockfile (Resolved Open Question 1). A "file:"
// dependency routes to a LocalPathProvider reading that directory's own
// pyproject.toml rather than the live PyPI index.
func resolve(buildMeta *buildmeta.BuildMeta) *solver.Result {
	constraints, paths := buildMeta.ToSolverConstraints()

	var provider solver.PackageContainerProvider = registry.NewPyPIProvider()
	if len(paths) > 0 {
		local := registry.NewLocalPathProvider()
		for name, dir := range paths {
			local.RegisterPath(name, dir)
		}
		provider = registry.NewCompositeProvider(local, provider)
	}

	var pins []solver.Pin
	if lf, err := installer.LoadLockfile("pactum.lock"); err == nil {
		pins = lf.ToPins()
	}

	return solver.SolveConstraints(context.Background(), constraints, provider, pins, nil)
}

func reportUnresolvable(result *solver.Result, root string) {
	fmt.Fprintf(os.Stderr, "[pactum] Dependency resolution failed: %v\n", result.Err)
	if result.Err.Kind == solver.ErrUnresolvable {
		report := solver.NewReport(result.Err.Incompatibility, root)
		fmt.Fprintln(os.Stderr, "\nDependency conflict details:")
		for _, line := range report.Lines {
			fmt.Fprintln(os.Stderr, line)
		}
	}
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Resolve and lock project dependencies",
	Run: func(cmd *cobra.Command, args []string) {
		buildMeta, err := buildmeta.ParseFromDirectory(".")
		if err != nil {
			fmt.Fprintf(os.Stderr, "[pactum] Error: Could not load buildmeta.yaml: %v\n", err)
			os.Exit(1)
		}
		result := resolve(buildMeta)
		if !result.Ok() {
			reportUnresolvable(result, buildMeta.Name)
			os.Exit(1)
		}
		fmt.Println("Dependencies resolved successfully.")
		fmt.Println("\nResolved packages:")
		for _, binding := range result.Bindings {
			fmt.Printf("  %s == %s\n", binding.Package, binding.Version)
		}
		lockManager := installer.NewLockfileManager(".")
		if err := lockManager.Update("buildmeta.yaml", result, "3.11"); err != nil {
			fmt.Fprintf(os.Stderr, "[pactum] Error: Could not create lockfile: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\nLockfile updated: pactum.lock")
	},
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Generate lockfile without installing",
	Run: func(cmd *cobra.Command, args []string) {
		buildMeta, err := buildmeta.ParseFromDirectory(".")
		if err != nil {
			fmt.Fprintf(os.Stderr, "[pactum] Error: Could not load buildmeta.yaml: %v\n", err)
			os.Exit(1)
		}
		result := resolve(buildMeta)
		if !result.Ok() {
			reportUnresolvable(result, buildMeta.Name)
			os.Exit(1)
		}
		lockManager := installer.NewLockfileManager(".")
		if err := lockManager.Update("buildmeta.yaml", result, "3.11"); err != nil {
			fmt.Fprintf(os.Stderr, "[pactum] Error: Could not create lockfile: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Lockfile generated: pactum.lock")
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Install dependencies from lockfile (no resolution)",
	Run: func(cmd *cobra.Command, args []string) {
		venvPath := ".venv"
		venv := installer.NewVirtualEnvironment(venvPath)
		if !venv.Exists() {
			fmt.Fprintf(os.Stderr, "[pactum] Error: Virtual environment does not exist at %s\n", venvPath)
			fmt.Fprintln(os.Stderr, "Create it first with: pactum venv create")
			os.Exit(1)
		}
		lockManager := installer.NewLockfileManager(".")
		lockfile, err := lockManager.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "[pactum] Error: Could not load lockfile: %v\n", err)
			os.Exit(1)
		}
		wheelInstaller := installer.NewWheelInstaller(venvPath)
		for name, pkg := range lockfile.Packages {
			fmt.Printf("Installing %s %s...\n", name, pkg.Version)
			if err := wheelInstaller.InstallWheelFromPyPI(name, pkg.Version); err != nil {
				fmt.Fprintf(os.Stderr, "[pactum] Error: Could not install %s: %v\n", name, err)
				os.Exit(1)
			}
		}
		fmt.Println("All packages installed from lockfile.")
	},
}

var venvCmd = &cobra.Command{
	Use:   "venv",
	Short: "Manage virtual environments",
}

var venvCreateCmd = &cobra.Command{
	Use:   "create [path]",
	Short: "Create a new virtual environment",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		venvPath := ".venv"
		if len(args) > 0 {
			venvPath = args[0]
		}
		venv := installer.NewVirtualEnvironment(venvPath)
		if err := venv.Create(); err != nil {
			fmt.Fprintf(os.Stderr, "[pactum] Error: Could not create virtual environment: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created virtual environment at %s\n", venvPath)
		fmt.Println("\nTo activate:")
		if venvPath == ".venv" {
			fmt.Println("  source .venv/bin/activate  # Linux/macOS")
			fmt.Println("  .venv\\Scripts\\activate     # Windows")
		} else {
			fmt.Printf("  source %s/bin/activate\n", venvPath)
		}
	},
}

var venvInstallCmd = &cobra.Command{
	Use:   "install [venv-path]",
	Short: "Install dependencies into virtual environment",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		venvPath := ".venv"
		if len(args) > 0 {
			venvPath = args[0]
		}
		venv := installer.NewVirtualEnvironment(venvPath)
		if !venv.Exists() {
			fmt.Fprintf(os.Stderr, "[pactum] Error: Virtual environment does not exist at %s\n", venvPath)
			fmt.Fprintln(os.Stderr, "Create it first with: pactum venv create")
			os.Exit(1)
		}
		lockManager := installer.NewLockfileManager(".")
		lockfile, err := lockManager.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "[pactum] Error: Could not load lockfile: %v\n", err)
			os.Exit(1)
		}
		wheelInstaller := installer.NewWheelInstaller(venvPath)
		for name, pkg := range lockfile.Packages {
			fmt.Printf("Installing %s %s...\n", name, pkg.Version)
			if err := wheelInstaller.InstallWheelFromPyPI(name, pkg.Version); err != nil {
				fmt.Fprintf(os.Stderr, "[pactum] Error: Could not install %s: %v\n", name, err)
				os.Exit(1)
			}
		}
		fmt.Println("All packages installed successfully.")
	},
}

var venvListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available virtual environments",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat(".venv"); err == nil {
			fmt.Println(".venv (default)")
		} else {
			fmt.Println("No virtual environments found.")
		}
	},
}

var venvActivateCmd = &cobra.Command{
	Use:   "activate [venv-path]",
	Short: "Print activation instructions for a virtual environment",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		venvPath := ".venv"
		if len(args) > 0 {
			venvPath = args[0]
		}
		if _, err := os.Stat(venvPath); err != nil {
			fmt.Fprintf(os.Stderr, "[pactum] Error: Virtual environment does not exist at %s\n", venvPath)
			os.Exit(1)
		}
		fmt.Println("To activate:")
		fmt.Printf("  source %s/bin/activate  # Linux/macOS\n", venvPath)
		fmt.Printf("  %s\\Scripts\\activate     # Windows\n", venvPath)
	},
}

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for a package on PyPI",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := args[0]
		client := pypi.NewPyPIClient()

		if searchJSON {
			raw, err := client.FetchRawMetadataBytes(query)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[pactum] Error: Could not search for package: %v\n", err)
				os.Exit(1)
			}
			doc, err := netutil.ParseJSONMap(raw)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[pactum] Error: %v\n", err)
				os.Exit(1)
			}
			info, err := doc.GetMap("info")
			if err != nil {
				fmt.Fprintf(os.Stderr, "[pactum] Error: %v\n", err)
				os.Exit(1)
			}
			pretty, err := netutil.PrettyPrintJSON(info)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[pactum] Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(pretty)
			return
		}

		metadata, err := client.FetchPackageMetadata(query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[pactum] Error: Could not search for package: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s %s\n", metadata.Info.Name, metadata.Info.Version)
		fmt.Printf("%s\n", metadata.Info.Summary)
		if metadata.Info.Author != "" {
			fmt.Printf("Author: %s\n", metadata.Info.Author)
		}
		if metadata.Info.HomePage != "" {
			fmt.Printf("Homepage: %s\n", metadata.Info.HomePage)
		}
		fmt.Println("\nAvailable versions:")
		versions, err := client.GetVersions(query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[pactum] Error: Could not get versions: %v\n", err)
			os.Exit(1)
		}
		for _, version := range versions {
			fmt.Printf("  %s\n", version)
		}
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a small built-in example with the Pubgrub engine (offline)",
	Run: func(cmd *cobra.Command, args []string) {
		provider := registry.NewInMemoryProvider()
		provider.AddVersion("urllib3", solver.MustParseVersion("1.26.0"), nil)
		provider.AddVersion("urllib3", solver.MustParseVersion("2.0.0"), nil)
		provider.AddVersion("certifi", solver.MustParseVersion("2020.12.5"), nil)
		provider.AddVersion("requests", solver.MustParseVersion("2.25.0"), []solver.Dependency{
			{Package: "urllib3", Req: solver.VersionSetReq(solver.RangeSet(solver.MustParseVersion("1.26.0"), nil))},
			{Package: "certifi", Req: solver.VersionSetReq(solver.RangeSet(solver.MustParseVersion("2020.12.0"), nil))},
		})

		result := solver.SolveConstraints(context.Background(), []solver.Dependency{
			{Package: "example", Req: solver.UnversionedReq()},
			{Package: "requests", Req: solver.VersionSetReq(solver.AnySet())},
		}, provider, nil, nil)
		if !result.Ok() {
			reportUnresolvable(result, "example")
			os.Exit(1)
		}
		fmt.Println("Solved.")
		fmt.Println("\nSolution:")
		for _, binding := range result.Bindings {
			fmt.Printf("  %s == %s\n", binding.Package, binding.Version)
		}
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import dependencies from requirements.txt or pyproject.toml",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file := args[0]
		if strings.HasSuffix(file, ".txt") {
			reqs, err := buildmeta.ParseRequirementsFile(file)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[pactum] Error: Could not parse requirements.txt: %v\n", err)
				os.Exit(1)
			}
			buildMeta, err := buildmeta.ParseFromDirectory(".")
			if err != nil {
				buildMeta = buildmeta.NewBuildMeta("imported-project", "0.1.0")
			}
			for name, constraint := range reqs {
				buildMeta.AddDependency(name, constraint)
			}
			if err := buildmeta.WriteToDirectory(".", buildMeta); err != nil {
				fmt.Fprintf(os.Stderr, "[pactum] Error: Could not save buildmeta.yaml: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Imported dependencies from requirements.txt into buildmeta.yaml")
		} else if strings.HasSuffix(file, ".toml") {
			pyMeta, err := buildmeta.ParsePyProjectToml(file)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[pactum] Error: Could not parse pyproject.toml: %v\n", err)
				os.Exit(1)
			}
			buildMeta := buildmeta.NewBuildMeta(pyMeta.Name, pyMeta.Version)
			for name, constraint := range pyMeta.Dependencies {
				buildMeta.AddDependency(name, constraint)
			}
			if err := buildmeta.WriteToDirectory(".", buildMeta); err != nil {
				fmt.Fprintf(os.Stderr, "[pactum] Error: Could not save buildmeta.yaml: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Imported dependencies from pyproject.toml into buildmeta.yaml")
		} else {
			fmt.Fprintln(os.Stderr, "[pactum] Error: Unsupported file type. Use requirements.txt or pyproject.toml.")
			os.Exit(1)
		}
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export dependencies to requirements.txt or pyproject.toml",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file := args[0]
		buildMeta, err := buildmeta.ParseFromDirectory(".")
		if err != nil {
			fmt.Fprintf(os.Stderr, "[pactum] Error: Could not load buildmeta.yaml: %v\n", err)
			os.Exit(1)
		}
		if strings.HasSuffix(file, ".txt") {
			if err := buildmeta.ExportRequirementsFile(file, buildMeta.GetDependencies()); err != nil {
				fmt.Fprintf(os.Stderr, "[pactum] Error: Could not write requirements.txt: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Exported dependencies to requirements.txt")
		} else if strings.HasSuffix(file, ".toml") {
			if err := buildmeta.ExportPyProjectToml(file, buildMeta); err != nil {
				fmt.Fprintf(os.Stderr, "[pactum] Error: Could not write pyproject.toml: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Exported dependencies to pyproject.toml")
		} else {
			fmt.Fprintln(os.Stderr, "[pactum] Error: Unsupported file type. Use requirements.txt or pyproject.toml.")
			os.Exit(1)
		}
	},
}

var pyprojectFlag bool

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(venvCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)

	venvCmd.AddCommand(venvCreateCmd)
	venvCmd.AddCommand(venvInstallCmd)
	venvCmd.AddCommand(venvListCmd)
	venvCmd.AddCommand(venvActivateCmd)

	initCmd.Flags().BoolVar(&pyprojectFlag, "pyproject", false, "Also create pyproject.toml")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print the raw PyPI metadata document as JSON")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
