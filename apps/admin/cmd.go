package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/trezcool/elimu/core/catalog"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db          *sql.DB
	catalogRepo catalog.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [args] - run DB migrations (up, down, status, ...)")
	fmt.Println("  addcategory -name NAME - create a new course category")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addCategoryCmd := flag.NewFlagSet("addcategory", flag.ExitOnError)
	addCategoryName := addCategoryCmd.String("name", "", "The category's name.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addcategory":
		if err := addCategoryCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addCategoryName == "" {
			addCategoryCmd.Usage()
			return errHelp
		}
		return cli.addCategory(*addCategoryName)
	default:
		cli.printUsage()
		return errHelp
	}
}
