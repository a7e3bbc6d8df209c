package main

// set with -ldflags "-X main.gitSHA1=... -X main.gitDirty=..."
var (
	gitSHA1  string = "unknown"
	gitDirty string = "unknown"
)

func DictGitSHA1() string {
	return gitSHA1
}

func DictGitDirty() string {
	return gitDirty
}
