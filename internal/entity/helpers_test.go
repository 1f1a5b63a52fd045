package entity

func validArmy() ArmySetup {
	return ArmySetup{
		{Marshal, General, Colonel, Colonel, Major, Major, Major, Captain, Captain, Captain},
		{Captain, Lieutenant, Lieutenant, Lieutenant, Lieutenant, Sergeant, Sergeant, Sergeant, Sergeant, Spy},
		{Miner, Miner, Miner, Miner, Miner, Scout, Scout, Scout, Scout, Scout},
		{Scout, Scout, Scout, Bomb, Bomb, Bomb, Bomb, Bomb, Bomb, Flag},
	}
}
