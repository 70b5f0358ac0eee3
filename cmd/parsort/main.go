package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/sbezverk/parsort/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	glog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
