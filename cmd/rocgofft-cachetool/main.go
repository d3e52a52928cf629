// Command rocgofft-cachetool inspects and manipulates an RTC cache file
// from the command line, mirroring the teacher's cmd/benchkernels
// flag-driven-main-wrapping-library-internals shape.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/rocgofft/rocgofft/internal/rtccache"
)

func main() {
	var (
		path    = flag.String("path", "", "path to the RTC cache file (required)")
		export  = flag.String("export", "", "serialize the cache to this file and exit")
		mergeIn = flag.String("merge", "", "deserialize this file's contents into the cache")
		verbose = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *path == "" {
		fmt.Println("rocgofft-cachetool: -path is required")
		os.Exit(2)
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	cache := rtccache.Open(*path, log)
	defer func() {
		if err := cache.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close: %v\n", err)
		}
	}()

	if *mergeIn != "" {
		if err := mergeFrom(cache, *mergeIn); err != nil {
			fmt.Fprintf(os.Stderr, "merge: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("merged %s into %s\n", *mergeIn, *path)
	}

	if *export != "" {
		if err := exportTo(cache, *export); err != nil {
			fmt.Fprintf(os.Stderr, "export: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("exported %s to %s\n", *path, *export)
	}

	if *mergeIn == "" && *export == "" {
		fmt.Println("rocgofft-cachetool: nothing to do; pass -export or -merge")
	}
}

func exportTo(cache *rtccache.Cache, dest string) error {
	data, err := cache.Serialize()
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

func mergeFrom(cache *rtccache.Cache, src string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return cache.Deserialize(data)
}
