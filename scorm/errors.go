package scorm

import "fmt"

// TooManyTemplatesError is returned before assembly starts when the course
// exceeds the template ceiling.
type TooManyTemplatesError struct {
	Count int
	Limit int
}

func (e *TooManyTemplatesError) Error() string {
	return fmt.Sprintf("course has %d templates, exceeding maximum of %d", e.Count, e.Limit)
}

// TooManyAssetsError is returned before assembly starts when the course
// exceeds the asset ceiling.
type TooManyAssetsError struct {
	Count int
	Limit int
}

func (e *TooManyAssetsError) Error() string {
	return fmt.Sprintf("course has %d assets, exceeding maximum of %d", e.Count, e.Limit)
}

// PackageTooLargeError is returned either from the pre-flight estimate or
// from the post-build measurement of the finished archive.
type PackageTooLargeError struct {
	SizeBytes int64
	LimitBytes int64
	Estimated bool
}

func (e *PackageTooLargeError) Error() string {
	stage := "final"
	if e.Estimated {
		stage = "estimated"
	}
	return fmt.Sprintf("%s package size (%.1fMB) exceeds maximum limit of %dMB",
		stage, float64(e.SizeBytes)/(1024*1024), e.LimitBytes/(1024*1024))
}

// AssemblyError names the artifact that failed to materialize.
type AssemblyError struct {
	Artifact string
	Err      error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("%s creation failed: %v", e.Artifact, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}

// PackageStructureError reports a self-check failure on the assembled
// staging directory before it is zipped.
type PackageStructureError struct {
	Reason string
}

func (e *PackageStructureError) Error() string {
	return "package validation failed: " + e.Reason
}
