package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aaron-ang/file-system/fs"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Usage: "Inspect and manipulate a virtual disk image",
		Commands: []*cli.Command{
			{
				Name:      "mkfs",
				Usage:     "Create a new, empty virtual disk",
				Action:    mkfs,
				ArgsUsage: "DISK_FILE",
			},
			{
				Name:      "ls",
				Usage:     "List the files on a disk",
				Action:    listFiles,
				ArgsUsage: "DISK_FILE",
			},
			{
				Name:      "cat",
				Usage:     "Print a file's contents to stdout",
				Action:    catFile,
				ArgsUsage: "DISK_FILE NAME",
			},
			{
				Name:      "put",
				Usage:     "Copy a file from the host into the disk",
				Action:    putFile,
				ArgsUsage: "DISK_FILE HOST_PATH NAME",
			},
			{
				Name:      "rm",
				Usage:     "Delete a file from the disk",
				Action:    removeFile,
				ArgsUsage: "DISK_FILE NAME",
			},
			{
				Name:      "stat",
				Usage:     "Print a file's size in bytes",
				Action:    statFile,
				ArgsUsage: "DISK_FILE NAME",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func mkfs(c *cli.Context) error {
	disk, err := requireArgs(c, 1)
	if err != nil {
		return err
	}
	return fs.Make(disk[0])
}

func listFiles(c *cli.Context) error {
	disk, err := requireArgs(c, 1)
	if err != nil {
		return err
	}
	return withVolume(disk[0], func(v *fs.Volume) error {
		names, err := v.ListFiles()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	})
}

func catFile(c *cli.Context) error {
	args, err := requireArgs(c, 2)
	if err != nil {
		return err
	}
	return withVolume(args[0], func(v *fs.Volume) error {
		fd, err := v.Open(args[1])
		if err != nil {
			return err
		}
		defer v.Close(fd)

		size, err := v.GetFilesize(fd)
		if err != nil {
			return err
		}
		buf := make([]byte, size)
		if _, err := v.Read(fd, buf); err != nil {
			return err
		}
		_, err = os.Stdout.Write(buf)
		return err
	})
}

func putFile(c *cli.Context) error {
	args, err := requireArgs(c, 3)
	if err != nil {
		return err
	}
	disk, hostPath, name := args[0], args[1], args[2]

	content, err := os.ReadFile(hostPath)
	if err != nil {
		return err
	}

	return withVolume(disk, func(v *fs.Volume) error {
		if err := v.Create(name); err != nil {
			return err
		}
		fd, err := v.Open(name)
		if err != nil {
			return err
		}
		defer v.Close(fd)

		written := 0
		for written < len(content) {
			n, err := v.Write(fd, content[written:])
			if err != nil {
				return err
			}
			if n == 0 {
				return io.ErrShortWrite
			}
			written += n
		}
		return nil
	})
}

func removeFile(c *cli.Context) error {
	args, err := requireArgs(c, 2)
	if err != nil {
		return err
	}
	return withVolume(args[0], func(v *fs.Volume) error {
		return v.Delete(args[1])
	})
}

func statFile(c *cli.Context) error {
	args, err := requireArgs(c, 2)
	if err != nil {
		return err
	}
	return withVolume(args[0], func(v *fs.Volume) error {
		fd, err := v.Open(args[1])
		if err != nil {
			return err
		}
		defer v.Close(fd)

		size, err := v.GetFilesize(fd)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d bytes\n", args[1], size)
		return nil
	})
}

func withVolume(diskPath string, fn func(v *fs.Volume) error) error {
	v, err := fs.Mount(diskPath)
	if err != nil {
		return err
	}
	if fnErr := fn(v); fnErr != nil {
		v.Unmount()
		return fnErr
	}
	return v.Unmount()
}

func requireArgs(c *cli.Context, n int) ([]string, error) {
	if c.NArg() < n {
		return nil, cli.Exit(fmt.Sprintf("expected %d argument(s), got %d", n, c.NArg()), 1)
	}
	return c.Args().Slice(), nil
}
