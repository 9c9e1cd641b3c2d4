package main

import (
	"context"
	"fmt"
	"time"

	"github.com/trezcool/elimu/core/catalog"
)

func (cli *commandLine) addCategory(name string) error {
	nc := catalog.NewCategory{Name: name}
	if err := nc.Validate(); err != nil {
		return err
	}

	cat, err := cli.catalogRepo.CreateCategory(context.Background(), catalog.Category{
		Name:      nc.Name,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("category %q created: %s\n", cat.Name, cat.ID)
	return nil
}
