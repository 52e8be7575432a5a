package video

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UniqueOutputPath derives the annotated-output location for a source video:
// <base>_annotated.mp4 in outputDir. If that file already exists a numeric
// suffix is appended and incremented until an unused name is found, so prior
// runs are never overwritten.
func UniqueOutputPath(outputDir, videoName string) string {
	base := strings.TrimSuffix(filepath.Base(videoName), filepath.Ext(videoName))

	path := filepath.Join(outputDir, base+"_annotated.mp4")
	for counter := 1; exists(path); counter++ {
		path = filepath.Join(outputDir, fmt.Sprintf("%s_annotated_%d.mp4", base, counter))
	}
	return path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
