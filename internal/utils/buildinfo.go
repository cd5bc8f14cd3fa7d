package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const unknownVersion = "unknown"

// gitDescribeAttempts lists the git invocations tried in order when build
// info carries no usable version.
var gitDescribeAttempts = [][]string{
	{"describe", "--tags", "--exact-match"},
	{"describe", "--tags", "--long", "--dirty"},
}

// GetApplicationVersion resolves the version string reported by --version.
// A release build carries the module version in its build info; development
// builds fall back to git describe against the enclosing repository, and
// "unknown" is returned when neither source yields anything.
func GetApplicationVersion() string {
	buildInformation, buildInformationPresent := debug.ReadBuildInfo()
	if buildInformationPresent && buildInformation.Main.Version != "" && buildInformation.Main.Version != "(devel)" {
		return buildInformation.Main.Version
	}

	repositoryDirectory, repositoryLookupError := enclosingRepositoryDirectory(".")
	if repositoryLookupError != nil || repositoryDirectory == "" {
		return unknownVersion
	}
	for _, describeArguments := range gitDescribeAttempts {
		// #nosec G204
		describeCommand := exec.Command("git", describeArguments...)
		describeCommand.Dir = repositoryDirectory
		describeOutput, describeError := describeCommand.Output()
		if describeError == nil && len(describeOutput) > 0 {
			return strings.TrimSpace(string(describeOutput))
		}
	}

	return unknownVersion
}

// enclosingRepositoryDirectory walks upward from the starting directory and
// returns the first ancestor containing a .git directory.
func enclosingRepositoryDirectory(startDirectory string) (string, error) {
	absoluteStartDirectory, absolutePathError := filepath.Abs(startDirectory)
	if absolutePathError != nil {
		return "", fmt.Errorf("resolving absolute path for %s: %w", startDirectory, absolutePathError)
	}

	candidateDirectory := absoluteStartDirectory
	for {
		gitDirectoryInformation, gitStatError := os.Stat(filepath.Join(candidateDirectory, GitDirectoryName))
		if gitStatError == nil && gitDirectoryInformation.IsDir() {
			return candidateDirectory, nil
		}
		parentDirectory := filepath.Dir(candidateDirectory)
		if parentDirectory == candidateDirectory {
			return "", fmt.Errorf("no %s directory found in or above %s", GitDirectoryName, absoluteStartDirectory)
		}
		candidateDirectory = parentDirectory
	}
}
