// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	bundle "github.com/saferwall/scriptbundle"
	"github.com/saferwall/scriptbundle/internal/log"
)

var (
	all        bool
	verbose    bool
	wantHeader bool
	wantPools  bool
	wantDefs   bool
	strict     bool

	wg   sync.WaitGroup
	jobs = make(chan string)
)

func prettyPrint(buf []byte) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf, "", "\t"); err != nil {
		return string(buf)
	}
	return pretty.String()
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func dumpFile(logger *log.Helper, filename string, cmd *cobra.Command) {
	logger.Infof("parsing filename %s", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		logger.Errorf("error reading %s: %v", filename, err)
		return
	}

	b, cerr := bundle.ReadBundle(data, &bundle.ReadOptions{Strict: strict})
	if cerr != nil {
		logger.Errorf("error parsing %s: %v", filename, cerr)
		return
	}

	wantHeader, _ := cmd.Flags().GetBool("header")
	if wantHeader || all {
		out, _ := json.Marshal(struct {
			CNames     int
			TweakDBIDs int
			Resources  int
			Strings    int
			Defs       int
		}{b.CNames.Len(), b.TweakDBIDs.Len(), b.Resources.Len(), b.Strings.Len(), len(b.Definitions) - 1})
		fmt.Println(prettyPrint(out))
	}

	wantPools, _ := cmd.Flags().GetBool("pools")
	if wantPools || all {
		out, _ := json.Marshal(struct {
			CNames     []string
			TweakDBIDs []string
			Resources  []string
			Strings    []string
		}{b.CNames.All(), b.TweakDBIDs.All(), b.Resources.All(), b.Strings.All()})
		fmt.Println(prettyPrint(out))
	}

	wantDefs, _ := cmd.Flags().GetBool("defs")
	if wantDefs || all {
		out, _ := json.Marshal(b.Headers[1:])
		fmt.Println(prettyPrint(out))
	}
}

func worker(logger *log.Helper, cmd *cobra.Command) {
	defer wg.Done()
	for filename := range jobs {
		dumpFile(logger, filename, cmd)
	}
}

func dump(cmd *cobra.Command, args []string) {
	logger := log.NewStdLogger(os.Stdout)
	logger = log.NewFilter(logger, log.FilterLevel(log.LevelInfo))
	helper := log.NewHelper(logger)

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go worker(helper, cmd)
	}

	for _, path := range args {
		if !isDirectory(path) {
			jobs <- path
			continue
		}
		filepath.Walk(path, func(p string, f os.FileInfo, err error) error {
			if err == nil && !f.IsDir() {
				jobs <- p
			}
			return nil
		})
	}
	close(jobs)
	wg.Wait()
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "bundledump",
		Short: "A compiled-script bundle reader",
		Long:  "Reads and dumps compiled-script bundle containers, brought to you by Saferwall (c) 2018 MIT",
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("You are using version 0.1.0")
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Dumps a bundle file (or every file under a directory)",
		Args:  cobra.MinimumNArgs(1),
		Run:   dump,
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dumpCmd)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	dumpCmd.Flags().BoolVarP(&wantHeader, "header", "", false, "Dump table counts")
	dumpCmd.Flags().BoolVarP(&wantPools, "pools", "", false, "Dump interned string pools")
	dumpCmd.Flags().BoolVarP(&wantDefs, "defs", "", false, "Dump definition headers")
	dumpCmd.Flags().BoolVarP(&strict, "strict", "", false, "Verify the header CRC while reading")
	dumpCmd.Flags().BoolVarP(&all, "all", "", false, "Dump everything")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
