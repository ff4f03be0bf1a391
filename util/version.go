package util

const Version = "1.0.0"

const CheckerNameAndVersion = "workstation checker " + Version
