// Package fuzztests houses Go fuzz harnesses for the log conversion path
// (log bytes -> lines -> tokens -> records). Its goal is to smoke test
// robustness and guard against panics on arbitrary build logs.
//
// Назначение: прогонять произвольные байты через logscan и compdb и
// проверять, что каждая строка даёт либо запись, либо диагностику.
//
// Не делает: обход файловой системы, запись compile_commands.json, CLI.
//
// Зависимости: internal/logscan, internal/compdb, internal/testkit.

package fuzztests
