package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addLineSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.log файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".log" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func addLineSeeds(f *testing.F) {
	for _, line := range []string{
		"",
		"cl.exe",
		"cl.exe /c /Ox main.cpp",
		`  CL.exe /c /I"C:\Program Files\inc" /Fo"x64\Debug\\" C:\src\app\main.cpp`,
		"cl.exe /c noext",
		"cl.exe /c dir/",
		`cl.exe /c ..\`,
		"cl.exe /c .hidden",
		"\xff\xfec\x00l\x00.\x00e\x00x\x00e\x00 \x00a\x00.\x00c\x00",
		"cl.exe \"\"\"\" a.c\r\n\r\ncl.exe\tb.c",
	} {
		f.Add([]byte(line))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
