package main

import (
	"github.com/sirupsen/logrus"
)

// logLevelFlag is a pflag.Value that sets the level of a logger as soon as the flag is parsed.
type logLevelFlag struct {
	logger *logrus.Logger
}

func (f logLevelFlag) String() string {
	if f.logger == nil {
		return logrus.InfoLevel.String()
	}
	return f.logger.GetLevel().String()
}

func (f logLevelFlag) Set(str string) error {
	lvl, err := logrus.ParseLevel(str)
	if err != nil {
		return err
	}
	f.logger.SetLevel(lvl)
	return nil
}

func (logLevelFlag) Type() string {
	return "LEVEL"
}
