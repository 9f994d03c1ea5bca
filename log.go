package fiatshamir

import (
	"github.com/privacybydesign/fiatshamir/safeprime"
	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.StandardLogger()
	safeprime.Logger = Logger
}
