package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// ввод-вывод
	IOInfo        Code = 1000
	IOReadLog     Code = 1001
	IOReadDir     Code = 1002
	IOReadEntry   Code = 1003
	IOStatEntry   Code = 1004
	IOIndexCache  Code = 1005

	// индексация дерева исходников
	IdxInfo          Code = 2000
	IdxAmbiguousName Code = 2001
	IdxCacheReused   Code = 2002

	// синтез compile command
	SynInfo             Code = 3000
	SynEmptyTokens      Code = 3001
	SynNoFileName       Code = 3002
	SynNoExtension      Code = 3003
	SynPathNotFound     Code = 3004
	SynDuplicateEntries Code = 3005

	// наблюдаемость
	ObsInfo            Code = 4000
	ObsDuplicateRecord Code = 4001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:         "Unknown error",
		IOInfo:              "I/O information",
		IOReadLog:           "Failed to read build log",
		IOReadDir:           "Failed to read directory",
		IOReadEntry:         "Failed to read directory entry",
		IOStatEntry:         "Failed to stat directory entry",
		IOIndexCache:        "Index cache unusable",
		IdxInfo:             "Index information",
		IdxAmbiguousName:    "File name appears in more than one directory",
		IdxCacheReused:      "Index loaded from cache",
		SynInfo:             "Synthesis information",
		SynEmptyTokens:      "Empty token list",
		SynNoFileName:       "No file name in last token",
		SynNoExtension:      "No extension in path",
		SynPathNotFound:     "Path not found",
		SynDuplicateEntries: "Duplicate entries found",
		ObsInfo:             "Observability information",
		ObsDuplicateRecord:  "Duplicate compile command dropped",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("IDX%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
