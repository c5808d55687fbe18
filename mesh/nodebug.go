//go:build !femeshdebug

package mesh

func assertIndex(string, int, int) {}
