package controller

import (
	"github.com/docsmith/collabd/src/collabd/controller/autosave"
	"github.com/docsmith/collabd/src/collabd/controller/branch"
	"github.com/docsmith/collabd/src/collabd/controller/editor"
	"github.com/docsmith/collabd/src/collabd/controller/lock"
	"github.com/docsmith/collabd/src/collabd/controller/presence"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(autosave.New),
	fx.Provide(lock.New),
	fx.Provide(presence.New),
	fx.Provide(branch.New),
	fx.Provide(editor.New),
)
