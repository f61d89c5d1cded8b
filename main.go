package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jack-and-rozz/occult/IO"
	"github.com/jack-and-rozz/occult/logging"
	"github.com/jack-and-rozz/occult/params"
	"github.com/jack-and-rozz/occult/vocab"
)

var (
	configPath      string
	exportVocab     string
	exportEmb       string
	exportITF       string
	exportIDs       string
	idsPrefix       string
	shardBytes      int64
	exportCharVocab string
	cliFlag         bool
)

func init() {
	flag.StringVar(&configPath, "config", "", "YAML vocabulary config (required)")
	flag.StringVar(&exportVocab, "export-vocab", "", "write the word vocabulary as JSON")
	flag.StringVar(&exportEmb, "export-emb", "", "write the merged embedding matrix as text")
	flag.StringVar(&exportITF, "export-itf", "", "write the ITF loss weights")
	flag.StringVar(&exportIDs, "export-ids", "", "corpus to encode into binary id shards")
	flag.StringVar(&idsPrefix, "ids-prefix", "ids", "output prefix for id shards")
	flag.Int64Var(&shardBytes, "shard-bytes", 2*1024*1024*1024, "max bytes per id shard")
	flag.StringVar(&exportCharVocab, "export-char-vocab", "", "build the predefined character vocabulary and write it as JSON")
	flag.BoolVar(&cliFlag, "cli", false, "interactive encode/decode loop on stdin")
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	log := logging.WithComponent("main")
	if configPath == "" {
		flag.Usage()
		return fmt.Errorf("-config is required")
	}
	cfg, err := params.LoadConfig(configPath)
	if err != nil {
		return err
	}

	v, err := vocab.NewEmbeddingVocabulary(cfg)
	if err != nil {
		return err
	}

	if exportVocab != "" {
		if err := IO.ExportVocabJSON(exportVocab, v.Vocabulary); err != nil {
			return err
		}
		log.Info("exported vocabulary", "path", exportVocab)
	}
	if exportEmb != "" {
		if err := IO.ExportEmbeddingsText(exportEmb, v.Tokens(), v.InitEmbeddings()); err != nil {
			return err
		}
		log.Info("exported embeddings", "path", exportEmb)
	}
	if exportITF != "" {
		if v.ITF() == nil {
			log.Warn("no frequency table configured, skipping ITF export")
		} else if err := IO.ExportWeights(exportITF, v.Tokens(), v.ITF()); err != nil {
			return err
		}
	}
	if exportIDs != "" {
		if _, err := IO.ExportTokenIDsBinary(exportIDs, idsPrefix, shardBytes, v.WordVocabulary); err != nil {
			return err
		}
	}
	if exportCharVocab != "" {
		cv, err := vocab.NewPredefinedCharVocabulary(cfg.Char)
		if err != nil {
			return err
		}
		if err := IO.ExportVocabJSON(exportCharVocab, cv.Vocabulary); err != nil {
			return err
		}
		log.Info("exported character vocabulary", "path", exportCharVocab, "size", cv.Size())
	}

	if cliFlag {
		return ChatCLI(v.WordVocabulary, os.Stdin, os.Stdout)
	}
	return nil
}
